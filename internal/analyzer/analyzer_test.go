package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".go", "Go"},
		{".js", "JavaScript"},
		{".tsx", "TypeScript"},
		{".py", "Python"},
		{".rb", "Ruby"},
		{".rs", "Rust"},
		{".java", "Java"},
		{".sh", "Shell"},
		{".txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := languageFor(tt.ext); got != tt.want {
			t.Errorf("languageFor(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestAnalyzeContentGo(t *testing.T) {
	content := `package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

type Server struct {
	logger zerolog.Logger
}

type Handler interface {
	Handle() error
}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) routes() {
	// TODO: add auth middleware
	s.mux.HandleFunc("/health", s.handleHealth)
	s.router.GET("/users", s.listUsers)
}
`
	summary := analyzeContent("server.go", "Go", content)

	if got := summary.Functions; !reflect.DeepEqual(got, []string{"NewServer", "routes"}) {
		t.Errorf("functions = %v", got)
	}
	if got := summary.Types; !reflect.DeepEqual(got, []string{"Server", "Handler"}) {
		t.Errorf("types = %v", got)
	}
	if got := summary.Imports; !reflect.DeepEqual(got, []string{"fmt", "net/http", "github.com/rs/zerolog"}) {
		t.Errorf("imports = %v", got)
	}

	wantEndpoints := []Endpoint{
		{Method: "GET", Path: "/users"},
		{Method: "ANY", Path: "/health"},
	}
	if !reflect.DeepEqual(summary.Endpoints, wantEndpoints) {
		t.Errorf("endpoints = %v", summary.Endpoints)
	}

	if len(summary.Todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(summary.Todos))
	}
	if summary.Todos[0].Text != "add auth middleware" {
		t.Errorf("todo text = %q", summary.Todos[0].Text)
	}
}

func TestAnalyzeContentJavaScript(t *testing.T) {
	content := `import express from 'express';
const db = require('./db');

export class UserStore {}

export const listUsers = async (req, res) => {
  res.json([]);
};

function helper() {}

app.get('/users', listUsers);
app.post('/users', createUser);
`
	summary := analyzeContent("api.js", "JavaScript", content)

	if got := summary.Functions; !reflect.DeepEqual(got, []string{"helper", "listUsers"}) {
		t.Errorf("functions = %v", got)
	}
	if got := summary.Types; !reflect.DeepEqual(got, []string{"UserStore"}) {
		t.Errorf("types = %v", got)
	}
	if got := summary.Imports; !reflect.DeepEqual(got, []string{"express", "./db"}) {
		t.Errorf("imports = %v", got)
	}

	wantEndpoints := []Endpoint{
		{Method: "GET", Path: "/users"},
		{Method: "POST", Path: "/users"},
	}
	if !reflect.DeepEqual(summary.Endpoints, wantEndpoints) {
		t.Errorf("endpoints = %v", summary.Endpoints)
	}
}

func TestAnalyzeContentPython(t *testing.T) {
	content := `from flask import Flask
import os

app = Flask(__name__)

class JobQueue:
    pass

@app.route('/jobs')
def list_jobs():
    return []

@app.post('/jobs')
async def create_job():
    pass
`
	summary := analyzeContent("jobs.py", "Python", content)

	if got := summary.Functions; !reflect.DeepEqual(got, []string{"list_jobs", "create_job"}) {
		t.Errorf("functions = %v", got)
	}
	if got := summary.Types; !reflect.DeepEqual(got, []string{"JobQueue"}) {
		t.Errorf("types = %v", got)
	}
	if got := summary.Imports; !reflect.DeepEqual(got, []string{"os", "flask"}) {
		t.Errorf("imports = %v", got)
	}
	if len(summary.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %v", summary.Endpoints)
	}
}

func TestAnalyzeContentTypeScript(t *testing.T) {
	content := `export interface User {
  id: string;
}

export type UserID = string;

export function loadUser(id: UserID): User {
  return { id };
}
`
	summary := analyzeContent("user.ts", "TypeScript", content)

	if got := summary.Functions; !reflect.DeepEqual(got, []string{"loadUser"}) {
		t.Errorf("functions = %v", got)
	}
	if got := summary.Types; !reflect.DeepEqual(got, []string{"User", "UserID"}) {
		t.Errorf("types = %v", got)
	}
}

func TestFindTodos(t *testing.T) {
	content := "line one\n// TODO: fix the cache\nsome code\n# FIXME handle nil\n// TODO\n"
	todos := findTodos(content)

	if len(todos) != 3 {
		t.Fatalf("expected 3 todos, got %d: %v", len(todos), todos)
	}
	if todos[0].Text != "fix the cache" || todos[0].Line != 2 {
		t.Errorf("first todo = %+v", todos[0])
	}
	if todos[1].Text != "handle nil" || todos[1].Line != 4 {
		t.Errorf("second todo = %+v", todos[1])
	}
	// A bare marker falls back to the whole line.
	if todos[2].Text != "// TODO" || todos[2].Line != 5 {
		t.Errorf("third todo = %+v", todos[2])
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
	}

	for _, tt := range tests {
		if got := countLines(tt.content); got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	a := New(nil, nil)
	summary, err := a.AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if summary.Language != "Go" {
		t.Errorf("language = %q", summary.Language)
	}
	if len(summary.Functions) != 1 || summary.Functions[0] != "main" {
		t.Errorf("functions = %v", summary.Functions)
	}
}

func TestAnalyzeFileUnsupported(t *testing.T) {
	a := New(nil, nil)
	if _, err := a.AnalyzeFile("notes.txt"); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write("main.go", "package main\n\nfunc main() {}\n")
	write("web/app.js", "function render() {}\n")
	write("node_modules/lib/index.js", "function hidden() {}\n")
	write("notes.txt", "not source\n")

	a := New(nil, nil)
	project, err := a.AnalyzeDir(dir)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}

	if len(project.Files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(project.Files), project.Files)
	}
	if project.Files[0].Path != "main.go" {
		t.Errorf("first file = %q", project.Files[0].Path)
	}
	if project.Files[1].Path != filepath.Join("web", "app.js") {
		t.Errorf("second file = %q", project.Files[1].Path)
	}
	if project.Languages["Go"] != 1 || project.Languages["JavaScript"] != 1 {
		t.Errorf("languages = %v", project.Languages)
	}
	if project.TotalLines == 0 {
		t.Error("expected line count")
	}
}

func TestAnalyzeDirMissingRoot(t *testing.T) {
	a := New(nil, nil)
	if _, err := a.AnalyzeDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
