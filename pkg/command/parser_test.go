package command

import "testing"

func TestParseMatchesTrigger(t *testing.T) {
	parsed, ok := Parse("/summarize", Defaults())
	if !ok {
		t.Fatalf("expected /summarize to parse")
	}
	if parsed.Command.Trigger != "summarize" {
		t.Fatalf("unexpected command: %q", parsed.Command.Trigger)
	}
	if len(parsed.Params) != 0 {
		t.Fatalf("expected no params, got %v", parsed.Params)
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	if _, ok := Parse("/SUMMARIZE", Defaults()); !ok {
		t.Fatalf("expected uppercase trigger to parse")
	}
}

func TestParseNonSlashInput(t *testing.T) {
	if _, ok := Parse("summarize this please", Defaults()); ok {
		t.Fatalf("did not expect plain text to parse as a command")
	}
}

func TestParseUnknownTrigger(t *testing.T) {
	if _, ok := Parse("/frobnicate", Defaults()); ok {
		t.Fatalf("did not expect unknown trigger to parse")
	}
}

func TestParseCollectsParams(t *testing.T) {
	parsed, ok := Parse("/tone formal", Defaults())
	if !ok {
		t.Fatalf("expected /tone formal to parse")
	}
	if parsed.Params["tone"] != "formal" {
		t.Fatalf("expected tone=formal, got %v", parsed.Params)
	}
}

func TestParseMissingRequiredParam(t *testing.T) {
	if _, ok := Parse("/tone", Defaults()); ok {
		t.Fatalf("expected /tone without its required param to fail")
	}
}

func TestParseOptionalParamMayBeOmitted(t *testing.T) {
	commands := []SlashCommand{
		{
			Trigger:        "note",
			Parameters:     []Param{{Name: "tag", Required: false}},
			PromptTemplate: "Note: {{tag}}",
		},
	}
	parsed, ok := Parse("/note", commands)
	if !ok {
		t.Fatalf("expected optional param to be omittable")
	}
	if _, present := parsed.Params["tag"]; present {
		t.Fatalf("did not expect omitted param to be set")
	}
}

func TestExecuteInterpolatesPlaceholders(t *testing.T) {
	parsed, _ := Parse("/tone casual", Defaults())
	prompt := Execute(parsed.Command, parsed.Params)
	if prompt != "Rewrite your last response in a casual tone." {
		t.Fatalf("unexpected interpolated prompt: %q", prompt)
	}
}

func TestSuggestionsForBareSlash(t *testing.T) {
	got := Suggestions("/", Defaults())
	if len(got) != len(Defaults()) {
		t.Fatalf("expected all commands for bare slash, got %d", len(got))
	}
}

func TestSuggestionsByPrefix(t *testing.T) {
	got := Suggestions("/ex", Defaults())
	if len(got) != 2 {
		t.Fatalf("expected explain and expand, got %d", len(got))
	}
	for _, cmd := range got {
		if cmd.Trigger != "explain" && cmd.Trigger != "expand" {
			t.Fatalf("unexpected suggestion: %q", cmd.Trigger)
		}
	}
}

func TestSuggestionsForPlainText(t *testing.T) {
	if got := Suggestions("hello", Defaults()); got != nil {
		t.Fatalf("expected no suggestions for plain text, got %d", len(got))
	}
}
