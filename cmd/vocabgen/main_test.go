package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

func writeDataset(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bank_sms_dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesVocabulary(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "message_text,label\n"+
		"\"Rs.500 debited from A/c XX12. Avl bal Rs.1,200\",debit\n"+
		"\"Your OTP is 4411. Do not share your OTP\",otp\n")
	output := filepath.Join(dir, "out", "vocabulary.json")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-input", input,
		"-output", output,
		"-max-words", "5",
	}, &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not a JSON object: %v", err)
	}
	want := map[string]int{"<OOV>": 1, "rs": 2, "your": 3, "otp": 4, "500": 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%q = %d, want %d", k, got[k], v)
		}
	}

	out := stdout.String()
	if !strings.Contains(out, "Vocabulary saved with 5 words") {
		t.Errorf("stdout missing size line: %q", out)
	}
	if !strings.Contains(out, `Vocabulary preview: {"<OOV>": 1, "rs": 2`) {
		t.Errorf("stdout missing preview: %q", out)
	}
}

func TestRunEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "message_text\n")
	output := filepath.Join(dir, "vocabulary.json")
	if err := run(context.Background(), []string{"-input", input, "-output", output}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, _ := os.ReadFile(output)
	if string(data) != `{"<OOV>": 1}` {
		t.Errorf("output = %s", data)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "message_text\nhello\n")
	output := filepath.Join(dir, "vocabulary.json")

	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"missing input", []string{"-input", filepath.Join(dir, "nope.csv"), "-output", output}, apperrors.ErrInputNotFound, apperrors.ExitInput},
		{"zero max words", []string{"-input", input, "-output", output, "-max-words", "0"}, apperrors.ErrInvalidConfiguration, apperrors.ExitConfiguration},
		{"missing column", []string{"-input", input, "-output", output, "-column", "body"}, apperrors.ErrInvalidConfiguration, apperrors.ExitConfiguration},
		{"oov collision", []string{"-input", input, "-output", output, "-oov", "hello"}, apperrors.ErrInvalidConfiguration, apperrors.ExitConfiguration},
		{"unknown flag", []string{"-bogus"}, apperrors.ErrInvalidConfiguration, apperrors.ExitConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, &bytes.Buffer{})
			if !apperrors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if code := apperrors.ExitCode(err); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
				t.Error("output written despite failure")
			}
		})
	}
}
