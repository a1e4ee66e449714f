// Package command implements slash-command parsing and prompt-template
// interpolation for the input line.
package command

// Param is a positional parameter of a slash command.
type Param struct {
	Name        string
	Required    bool
	Description string
}

// SlashCommand rewrites free-form input into a fully interpolated prompt.
type SlashCommand struct {
	ID             string
	Trigger        string
	Description    string
	Parameters     []Param
	PromptTemplate string
}

// Defaults returns the built-in command set.
func Defaults() []SlashCommand {
	return []SlashCommand{
		{
			ID:             "cmd-summarize",
			Trigger:        "summarize",
			Description:    "Summarize the key points of the conversation so far",
			PromptTemplate: "Summarize the key points of our conversation so far.",
		},
		{
			ID:             "cmd-explain",
			Trigger:        "explain",
			Description:    "Explain the last topic in simple terms",
			PromptTemplate: "Explain the last topic we discussed in simple terms, as if explaining to a beginner.",
		},
		{
			ID:             "cmd-expand",
			Trigger:        "expand",
			Description:    "Go deeper on the last topic with more detail",
			PromptTemplate: "Go deeper on the last topic. Provide more detail, examples, and nuance.",
		},
		{
			ID:          "cmd-tone",
			Trigger:     "tone",
			Description: "Rewrite the last response in a specific tone",
			Parameters: []Param{
				{
					Name:        "tone",
					Required:    true,
					Description: "The tone to use (e.g., formal, casual, technical)",
				},
			},
			PromptTemplate: "Rewrite your last response in a {{tone}} tone.",
		},
	}
}
