// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func allIds() []Id {
	return []Id{
		ConfigLoadFailedId,
		NoEnvironmentsFoundId,
		SearchRootMissingId,
		SearchRootUnreadableId,
		SearchPatternInvalidId,
		CondaNotFoundId,
		DocumentInvalidId,
		InaccurateEnvironmentId,
		PermissionDeniedId,
	}
}

func mockRender(t *testing.T) {
	t.Helper()
	originalRender := render
	t.Cleanup(func() { render = originalRender })
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds() {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{NoEnvironmentsFoundId, false, "No Python environments found"},
		{SearchRootMissingId, false, "Search path not found"},
		{SearchRootUnreadableId, false, "could not be read"},
		{SearchPatternInvalidId, false, "Invalid search pattern"},
		{CondaNotFoundId, false, "Conda executable not found"},
		{DocumentInvalidId, false, "Invalid environment document"},
		{InaccurateEnvironmentId, false, "inaccurate"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain '%s'", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) != len(allIds()) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds()))
	}
	for i, issue := range issues {
		if issue.Id() != allIds()[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds()[i])
		}
	}
}

func TestIssue_Links(t *testing.T) {
	issue := Get(SearchPatternInvalidId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}

	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
	if issue.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", issue.DocLinks())
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	mockRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"See also", "https://docs.example.com", "https://external.example.com"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	mockRender(t)

	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	mockRender(t)

	for _, issue := range Values() {
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

func TestIssue_Render_Glamour(t *testing.T) {
	rendered, err := Get(PermissionDeniedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Permission denied") {
		t.Errorf("rendered output missing heading: %q", rendered)
	}
}
