package redact

import "testing"

func TestDetectModeLocal(t *testing.T) {
	for _, url := range []string{
		"http://localhost:11434/v1/chat/completions",
		"http://127.0.0.1:8000/v1/chat/completions",
		"http://[::1]:8080/v1",
		"http://LOCALHOST:8080/api",
	} {
		if m := DetectMode(url); m != ModeLocal {
			t.Errorf("DetectMode(%q) = %s, want local", url, m)
		}
	}
}

func TestDetectModeCloud(t *testing.T) {
	for _, url := range []string{
		"https://api.openai.com/v1/chat/completions",
		"http://10.0.0.5:8080/v1/chat/completions",
		"https://llm.internal.acme.io/v1",
	} {
		if m := DetectMode(url); m != ModeCloud {
			t.Errorf("DetectMode(%q) = %s, want cloud", url, m)
		}
	}
}

func TestResolveModeOverride(t *testing.T) {
	if m := ResolveMode("http://localhost:11434/v1", "always"); m != ModeCloud {
		t.Errorf("override always: got %s, want cloud", m)
	}
	if m := ResolveMode("https://api.openai.com/v1", " Never "); m != ModeLocal {
		t.Errorf("override never: got %s, want local", m)
	}
	if m := ResolveMode("https://api.openai.com/v1", "auto"); m != ModeCloud {
		t.Errorf("auto should detect cloud, got %s", m)
	}
}
