package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const testDefs = `
decisions:
  featured:
    truthy: featured
views:
  title:
    kind: element
    tag: h1
    attrs: {id: t}
    when: {ref: featured}
    children:
      - kind: value
        path: name
  badge:
    kind: element
    tag: span
    children:
      - kind: text
        text: new
`

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	data := writeFile(t, dir, "data.yaml", "name: Tom & Jerry\nfeatured: true\ntags: [a, b]\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "render",
			args: []string{"render", "--defs", defs, "--view", "title", "--data", data},
			want: "<h1 id=\"t\">Tom &amp; Jerry</h1>\n",
		},
		{
			name: "render with fixed id",
			args: []string{"render", "--defs", defs, "--view", "badge", "--render-id", "0192f5a0-aaaa-7bbb-8ccc-dddddddddddd"},
			want: "<span id=\"amb-0192f5a0-1\">new</span>\n",
		},
		{
			name: "eval",
			args: []string{"eval", "--defs", defs, "--decision", "featured", "--data", data},
			want: "true\n",
		},
		{
			name: "resolve",
			args: []string{"resolve", "--data", data, "name", "tags.[1]", "tags.[5]"},
			want: "name\tTom & Jerry\ntags.[1]\tb\ntags.[5]\t\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yaml", `
id: a1
title: Geography
published: true
questions:
  - id: q1
    prompt: Capital of France?
    kind: single
    points: 2
    choices:
      - {id: c1, label: Paris, correct: true}
      - {id: c2, label: Lyon}
  - id: q2
    prompt: Why?
    kind: text
    required: true
`)

	got, err := run(t, "apply", "--assessment", path,
		"--field", "amb:answers.[0].selected=c1",
		"--form", "amb:answers.[0].questionId=zz")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"points: 2", "max: 2", "graded: false", "- q2", "questionId", "refused:"} {
		if !strings.Contains(got, want) {
			t.Errorf("apply output missing %q:\n%s", want, got)
		}
	}
}

func TestParseFields(t *testing.T) {
	v, err := parseFields("a=1&b=2", []string{"a=3", "c="})
	if err != nil {
		t.Fatalf("parseFields() error = %v", err)
	}
	if got := v["a"]; len(got) != 2 || got[1] != "3" {
		t.Errorf("a = %v", got)
	}
	if _, ok := v["c"]; !ok {
		t.Error("empty value dropped")
	}
	if _, err := parseFields("", []string{"novalue"}); err == nil {
		t.Error("parseFields() without '=' should fail")
	}
}
