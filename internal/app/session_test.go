package app

import (
	"context"
	"strings"
	"testing"
)

func newMockSession(t *testing.T) (*Session, *MockChatClient) {
	t.Helper()
	tb := newTestToolbox(t)
	client := NewMockChatClient()
	return NewSession(client, tb, tb.Logger), client
}

func drainEvents(t *testing.T, session *Session) []SessionEvent {
	t.Helper()
	var events []SessionEvent
	for {
		select {
		case event := <-session.Events():
			events = append(events, event)
			if event.Kind == EventIdle || event.Kind == EventError {
				return events
			}
		default:
			t.Fatalf("Event stream ended without idle or error: %v", events)
		}
	}
}

// TestSessionPlainTurn verifies a text-only exchange produces delta, final
// and idle in order.
func TestSessionPlainTurn(t *testing.T) {
	session, _ := newMockSession(t)
	if err := session.Send(context.Background(), "hello there"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	events := drainEvents(t, session)
	kinds := make([]EventKind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}

	want := []EventKind{EventMessageDelta, EventMessageFinal, EventIdle}
	if len(kinds) != len(want) {
		t.Fatalf("Expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("Position %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
	if events[1].Text == "" {
		t.Error("Final message has no text")
	}
}

// TestSessionToolTurn verifies the tool-use loop: tool events wrap the
// execution and the closing message reflects the result.
func TestSessionToolTurn(t *testing.T) {
	session, client := newMockSession(t)
	if err := session.Send(context.Background(), "show me the current cpu usage"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	events := drainEvents(t, session)
	var sawStart, sawComplete bool
	var final SessionEvent
	for _, event := range events {
		switch event.Kind {
		case EventToolStart:
			if event.Tool != "get_cpu_stats" {
				t.Errorf("Expected get_cpu_stats, got %s", event.Tool)
			}
			sawStart = true
		case EventToolComplete:
			if !sawStart {
				t.Error("tool-complete before tool-start")
			}
			sawComplete = true
		case EventMessageFinal:
			final = event
		}
	}
	if !sawStart || !sawComplete {
		t.Fatalf("Missing tool events: %v", events)
	}
	if events[len(events)-1].Kind != EventIdle {
		t.Errorf("Turn should end idle, got %s", events[len(events)-1].Kind)
	}
	if final.Text == "" {
		t.Error("No closing message after tool round")
	}
	if client.Calls != 2 {
		t.Errorf("Expected 2 transport calls, got %d", client.Calls)
	}
}

// TestSessionBackgroundJobTurn runs the mock background-job flow end to end
// and checks the ledger afterwards.
func TestSessionBackgroundJobTurn(t *testing.T) {
	tb := newTestToolbox(t)
	session := NewSession(NewMockChatClient(), tb, tb.Logger)

	if err := session.Send(context.Background(), "run that in the background please"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	drainEvents(t, session)

	jobs := tb.Registry.List()
	if len(jobs) != 1 {
		t.Fatalf("Expected 1 registered job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Name != "mock-job" || job.Status != JobRunning {
		t.Errorf("Unexpected job: %+v", job)
	}
	if job.SessionID != session.ID {
		t.Errorf("Job session %q, expected %q", job.SessionID, session.ID)
	}

	// Cleanup: the mock starts a real sleep.
	if _, err := tb.Runner.StopJob(job.JobID); err != nil {
		t.Errorf("Cleanup stop failed: %v", err)
	}
}

// TestSessionJobsBuiltinListsJobs sends the prompt the jobs builtin
// rewrites to and checks it reads the ledger instead of launching anything.
func TestSessionJobsBuiltinListsJobs(t *testing.T) {
	tb := newTestToolbox(t)
	session := NewSession(NewMockChatClient(), tb, tb.Logger)

	action, prompt := RewriteBuiltin("jobs")
	if action != BuiltinPrompt {
		t.Fatalf("jobs should rewrite to a prompt, got %v", action)
	}
	if err := session.Send(context.Background(), prompt); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	events := drainEvents(t, session)
	var tools []string
	for _, event := range events {
		if event.Kind == EventToolStart {
			tools = append(tools, event.Tool)
		}
	}
	if len(tools) != 1 || tools[0] != "list_background_jobs" {
		t.Fatalf("Expected a single list_background_jobs call, got %v", tools)
	}
	if jobs := tb.Registry.List(); len(jobs) != 0 {
		t.Errorf("Listing must not register jobs, got %+v", jobs)
	}
}

// TestSessionTransportError verifies a failing transport surfaces as an
// error event and a returned error.
func TestSessionTransportError(t *testing.T) {
	tb := newTestToolbox(t)
	session := NewSession(failingClient{}, tb, tb.Logger)

	err := session.Send(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected an error from a failing transport")
	}

	events := drainEvents(t, session)
	last := events[len(events)-1]
	if last.Kind != EventError {
		t.Fatalf("Expected error event, got %s", last.Kind)
	}
	if !strings.Contains(last.Err, "transport down") {
		t.Errorf("Error event should carry the cause, got %q", last.Err)
	}
}

// TestSessionHistoryGrows verifies turns accumulate so the model keeps
// context.
func TestSessionHistoryGrows(t *testing.T) {
	session, _ := newMockSession(t)

	if err := session.Send(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	drainEvents(t, session)
	firstLen := len(session.history)

	if err := session.Send(context.Background(), "hello again"); err != nil {
		t.Fatal(err)
	}
	drainEvents(t, session)
	if len(session.history) <= firstLen {
		t.Errorf("History did not grow: %d then %d", firstLen, len(session.history))
	}
}

type failingClient struct{}

func (failingClient) Complete(ctx context.Context, system string, messages []ChatMessage, tools []ToolDefinition) (*ChatResponse, error) {
	return nil, errTransportDown
}

var errTransportDown = errTransport("transport down")

type errTransport string

func (e errTransport) Error() string { return string(e) }
