package queue

import (
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFormatLinePlannerSaved(t *testing.T) {
    body := []byte(`{"planner_id":50,"ticket_id":1,"user_id":9,"op":"CREATE","kind":"show","item_id":7,"date":"2025-06-18","title":"Planner for Laser Show","saved_at":"2025-06-01T10:00:00Z"}`)
    line, err := FormatLine(PlannerSavedQueue, body)
    require.NoError(t, err)
    assert.Equal(t, "[2025-06-01T10:00:00Z] Planner CREATE | planner_id=50 | user_id=9 | ticket_id=1 | date=2025-06-18 | show=7 | title=\"Planner for Laser Show\"\n", line)
}

func TestFormatLineServiceBooked(t *testing.T) {
    body := []byte(`{"booking_id":77,"service_id":11,"service_name":"Lakeside Bistro","user_id":9,"booking_time":"2025-06-20T14:30:00Z","number_of_people":2,"status":"CONFIRMED","booked_at":"2025-06-01T10:00:00Z"}`)
    line, err := FormatLine(ServiceBookedQueue, body)
    require.NoError(t, err)
    assert.Contains(t, line, "booking_id=77")
    assert.Contains(t, line, "user_id=9 | ticket_id=-")
    assert.Contains(t, line, "people=2 | status=CONFIRMED\n")
}

func TestFormatLineErrors(t *testing.T) {
    _, err := FormatLine(PlannerSavedQueue, []byte("{"))
    assert.ErrorContains(t, err, "unmarshal")
    _, err = FormatLine("nope", []byte("{}"))
    assert.Error(t, err)
}

func TestHandleMessageAppends(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    body := []byte(`{"planner_id":1,"op":"UPDATE","kind":"attraction","item_id":3}`)
    require.NoError(t, HandleMessage(dir, PlannerSavedQueue, body))
    require.NoError(t, HandleMessage(dir, PlannerSavedQueue, body))

    data, err := os.ReadFile(filepath.Join(dir, ActivityLogName))
    require.NoError(t, err)
    assert.Equal(t, 2, countLines(string(data)))
}

func countLines(s string) int {
    n := 0
    for _, r := range s {
        if r == '\n' {
            n++
        }
    }
    return n
}
