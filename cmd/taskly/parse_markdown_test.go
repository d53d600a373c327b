package main

import (
	"testing"
)

func TestParseMarkdownFrontMatterAndBullets(t *testing.T) {
	input := `---
list_id: 3
date: "2026-05-10"
priority: high
estimate_minutes: 30
labels: [errands, "2"]
description: weekend chores
---
# Saturday

- Buy milk
* Call the plumber
- [ ] Water plants
- [x] Take out trash
not a bullet
-
`
	frontMatter, items, err := parseMarkdown(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"Buy milk", "Call the plumber", "Water plants", "Take out trash"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("item %d: expected %q, got %q", i, want[i], items[i])
		}
	}

	req, labels, err := frontMatterToRequest(frontMatter)
	if err != nil {
		t.Fatalf("front matter: %v", err)
	}
	if req.ListID == nil || *req.ListID != 3 {
		t.Fatalf("expected list 3, got %v", req.ListID)
	}
	if req.Date != "2026-05-10" || req.Priority != "high" || req.Description != "weekend chores" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.EstimateMinutes == nil || *req.EstimateMinutes != 30 {
		t.Fatalf("expected estimate 30, got %v", req.EstimateMinutes)
	}
	if len(labels) != 2 || labels[0] != "errands" || labels[1] != "2" {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestParseMarkdownWithoutFrontMatter(t *testing.T) {
	frontMatter, items, err := parseMarkdown("- one\n- two\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(frontMatter) != 0 || len(items) != 2 {
		t.Fatalf("unexpected result %v %v", frontMatter, items)
	}
}

func TestParseMarkdownUnclosedFrontMatter(t *testing.T) {
	if _, _, err := parseMarkdown("---\npriority: low\n- task\n"); err == nil {
		t.Fatal("expected error for unclosed front matter")
	}
}

func TestFrontMatterRejectsBadNumbers(t *testing.T) {
	if _, _, err := frontMatterToRequest(map[string]any{"list_id": "inbox"}); err == nil {
		t.Fatal("expected list_id error")
	}
	if _, _, err := frontMatterToRequest(map[string]any{"estimate_minutes": []any{1}}); err == nil {
		t.Fatal("expected estimate_minutes error")
	}
}

func TestFrontMatterCommaSeparatedLabels(t *testing.T) {
	_, labels, err := frontMatterToRequest(map[string]any{"labels": "home, urgent ,"})
	if err != nil {
		t.Fatalf("front matter: %v", err)
	}
	if len(labels) != 2 || labels[0] != "home" || labels[1] != "urgent" {
		t.Fatalf("unexpected labels %v", labels)
	}
}
