package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sprintlens/internal/analysis"
	"sprintlens/internal/classify"
	"sprintlens/internal/config"
	"sprintlens/internal/snapshot"
	"sprintlens/internal/stats"
)

const testCatalog = `
sprints:
  - {name: s1, iteration_path: 'Web\Sprint 1', start: 2024-03-04, end: 2024-03-08}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := config.ParseCatalog([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	svc := &analysis.Service{Catalog: cat, Store: snapshot.NewStore(t.TempDir()), Offline: true}
	return NewServer(svc, "test")
}

func inlineInput() SprintInput {
	return SprintInput{
		Start: "2024-03-04",
		End:   "2024-03-08",
		Items: []analysis.ItemInput{
			{ID: 1, Title: "Fix login crash", Type: "Bug", State: "Closed", Assignee: "Ana", StoryPoints: 3,
				ActivatedDate: "2024-03-04T09:00:00Z", ClosedDate: "2024-03-05T09:00:00Z"},
			{ID: 2, Title: "Add api endpoint", Type: "User Story", State: "Active", StoryPoints: 5},
			{ID: 3, Title: "Update grid", Type: "User Story", State: "Resolved", StoryPoints: 2},
		},
	}
}

func TestHandleClassify(t *testing.T) {
	s := newTestServer(t)
	env, err := s.handleClassify(context.Background(), ClassifyInput{Title: "Redesign", Type: "Task", Tags: []string{"UXE"}})
	if err != nil {
		t.Fatal(err)
	}
	data := env.Data.(map[string]any)
	if data["category"] != classify.UX {
		t.Errorf("category = %v, want UX", data["category"])
	}
}

func TestHandleProgress_Inline(t *testing.T) {
	s := newTestServer(t)
	env, err := s.handleProgress(context.Background(), inlineInput())
	if err != nil {
		t.Fatalf("handleProgress: %v", err)
	}
	p := env.Data.(analysis.Progress)
	if len(p.Series.Days) != 5 || p.Series.TotalScopePoints != 10 {
		t.Fatalf("series = %+v", p.Series)
	}
	last := p.Series.Days[4]
	if last.CompletedItems != 2 || last.RemainingPoints != 5 {
		t.Errorf("last day = %+v", last)
	}
	// Item 3 is resolved without a date
	if len(env.Warnings) != 1 || !strings.Contains(env.Warnings[0], "no completion date") {
		t.Errorf("warnings = %v", env.Warnings)
	}
}

func TestHandleSummary_Inline(t *testing.T) {
	s := newTestServer(t)
	env, err := s.handleSummary(context.Background(), inlineInput())
	if err != nil {
		t.Fatalf("handleSummary: %v", err)
	}
	summary := env.Data.(map[string]any)["summary"].(stats.Summary)
	if summary.Completion.CompletedItems != 2 || summary.Hero == nil || summary.Hero.Name != "Ana" {
		t.Errorf("summary = %+v", summary.Completion)
	}
	if len(env.Warnings) == 0 {
		t.Error("expected warnings for the undated and unassigned item")
	}
}

func TestResolveDataset_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		in   SprintInput
		want error
	}{
		{"nothing", SprintInput{}, nil},
		{"both", SprintInput{Sprint: "s1", Items: []analysis.ItemInput{{ID: 1}}}, nil},
		{"unknown sprint", SprintInput{Sprint: "nope"}, config.ErrUnknownSprint},
		{"offline without snapshot", SprintInput{Sprint: "s1"}, analysis.ErrNoSnapshot},
		{"inverted window", SprintInput{Start: "2024-03-08", End: "2024-03-04"}, stats.ErrInvalidWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.resolveDataset(context.Background(), tt.in)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandleListSprints(t *testing.T) {
	s := newTestServer(t)
	env, err := s.handleListSprints(context.Background(), ListSprintsInput{})
	if err != nil {
		t.Fatal(err)
	}
	sprints := env.Data.(map[string]any)["sprints"].([]config.Sprint)
	if len(sprints) != 1 || sprints[0].Name != "s1" {
		t.Errorf("sprints = %+v", sprints)
	}
}

func TestServer_InMemorySession(t *testing.T) {
	ctx := context.Background()
	server, err := newTestServer(t).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"classify_work_item", "compute_sprint_progress", "compute_sprint_summary", "list_sprints"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &sdk.CallToolParams{
		Name:      "classify_work_item",
		Arguments: map[string]any{"title": "Fix the broken build", "type": "Bug"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError || len(res.Content) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	var env struct {
		Data struct {
			Category string `json:"category"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(text.Text), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Category != string(classify.Bug) {
		t.Errorf("category = %q, want Bug", env.Data.Category)
	}
}
