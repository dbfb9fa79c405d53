package rules

import "testing"

func TestRule_DisplayName(t *testing.T) {
	r := Rule{ID: "no_console", Name: "No console logging"}
	if r.DisplayName() != "No console logging" {
		t.Errorf("DisplayName = %s", r.DisplayName())
	}
	r.Name = ""
	if r.DisplayName() != "no_console" {
		t.Errorf("DisplayName fallback = %s", r.DisplayName())
	}
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher([]Rule{
		{ID: "ts_rule", Files: "*.ts"},
		{ID: "src_go", Files: "src/**/*.go"},
		{ID: "no_tests", Files: "*.go", Ignore: "*_test.go"},
	})

	tests := []struct {
		path string
		want []string
	}{
		{"a.ts", []string{"ts_rule"}},
		{"deep/nested/b.ts", []string{"ts_rule"}},
		{"src/pkg/c.go", []string{"src_go", "no_tests"}},
		{"main.go", []string{"no_tests"}},
		{"main_test.go", nil},
		{"src/pkg/c_test.go", []string{"src_go"}},
		{"README.md", nil},
	}

	for _, tt := range tests {
		got := m.Match(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("Match(%s) = %d rules, want %d", tt.path, len(got), len(tt.want))
			continue
		}
		for i, r := range got {
			if r.ID != tt.want[i] {
				t.Errorf("Match(%s)[%d] = %s, want %s", tt.path, i, r.ID, tt.want[i])
			}
		}
	}
}

func TestMatcher_PreservesConfigOrder(t *testing.T) {
	m := NewMatcher([]Rule{
		{ID: "third", Files: "*.go"},
		{ID: "first", Files: "*.go"},
		{ID: "second", Files: "*.go"},
	})

	got := m.Match("x.go")
	want := []string{"third", "first", "second"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("Match order[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestMatcher_Rules(t *testing.T) {
	rs := []Rule{
		{ID: "a", Files: "*.go"},
		{ID: "b", Files: "*.ts"},
	}
	got := NewMatcher(rs).Rules()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Rules = %+v", got)
	}
}
