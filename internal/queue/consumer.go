// Package queue contains the background consumer that listens to the
// planner.saved and service.booked queues and writes one line per event
// to <dir>/activity.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
)

// ActivityLogName is the file the consumer appends to.
const ActivityLogName = "activity.log"

// StartActivityConsumer connects to RabbitMQ, declares both activity
// queues (durable), and starts consuming messages.  Each message is
// appended to dir/activity.log in a single-line, human-friendly format.
// The function runs a reconnect loop and only returns when ctx is
// cancelled; processing errors are logged and the offending message is
// rejected so the server keeps operating.
func StartActivityConsumer(ctx context.Context, url, dir string) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn().Str("component", "activity-consumer").Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, dir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Str("component", "activity-consumer").Err(err).Msg("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Str("component", "activity-consumer").Err(err).Msg("set QoS failed")
    }

    type delivery struct {
        queue string
        d     amqp.Delivery
    }
    merged := make(chan delivery)
    done := make(chan struct{})
    defer close(done)
    for _, name := range []string{PlannerSavedQueue, ServiceBookedQueue} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        go func(name string, msgs <-chan amqp.Delivery) {
            for d := range msgs {
                select {
                case merged <- delivery{name, d}:
                case <-done:
                    return
                }
            }
            // one closed queue means the channel is gone
            select {
            case merged <- delivery{}:
            case <-done:
            }
        }(name, msgs)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case m := <-merged:
            if m.queue == "" {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(dir, m.queue, m.d.Body); err != nil {
                log.Error().Str("component", "activity-consumer").Str("queue", m.queue).Err(err).Msg("handle message failed")
                _ = m.d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = m.d.Ack(false)
        }
    }
}

// HandleMessage decodes one message from queue and appends its line to
// dir/activity.log.
func HandleMessage(dir, queue string, body []byte) error {
    line, err := FormatLine(queue, body)
    if err != nil {
        return err
    }
    // Ensure log directory exists
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, ActivityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders an event as a single newline-terminated log line.
func FormatLine(queue string, body []byte) (string, error) {
    switch queue {
    case PlannerSavedQueue:
        var ev PlannerSavedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Planner %s | planner_id=%d | user_id=%d | ticket_id=%d | date=%s | %s=%d | title=%q\n",
            ev.SavedAt, ev.Op, ev.PlannerID, ev.UserID, ev.TicketID, ev.Date, ev.Kind, ev.ItemID, ev.Title), nil
    case ServiceBookedQueue:
        var ev ServiceBookedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        ticket, user := "-", "-"
        if ev.TicketID != nil {
            ticket = fmt.Sprint(*ev.TicketID)
        }
        if ev.UserID != nil {
            user = fmt.Sprint(*ev.UserID)
        }
        return fmt.Sprintf("[%s] Service booked | booking_id=%d | service_id=%d | service=%q | user_id=%s | ticket_id=%s | at=%s | people=%d | status=%s\n",
            ev.BookedAt, ev.BookingID, ev.ServiceID, ev.ServiceName, user, ticket, ev.BookingTime, ev.NumberOfPeople, ev.Status), nil
    }
    return "", fmt.Errorf("unknown queue %q", queue)
}
