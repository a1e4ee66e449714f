package command

import "strings"

// Parsed pairs a matched command with its positional parameter values.
type Parsed struct {
	Command SlashCommand
	Params  map[string]string
}

// Parse matches input of the form "/trigger arg1 arg2..." against the given
// command set. It returns false for non-slash input, unknown triggers, and
// commands missing a required parameter.
func Parse(input string, commands []SlashCommand) (Parsed, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Parsed{}, false
	}

	parts := strings.Fields(trimmed[1:])
	if len(parts) == 0 {
		return Parsed{}, false
	}
	trigger := strings.ToLower(parts[0])

	var matched SlashCommand
	found := false
	for _, cmd := range commands {
		if strings.ToLower(cmd.Trigger) == trigger {
			matched = cmd
			found = true
			break
		}
	}
	if !found {
		return Parsed{}, false
	}

	params := map[string]string{}
	values := parts[1:]
	for i, param := range matched.Parameters {
		if i >= len(values) {
			if param.Required {
				return Parsed{}, false
			}
			continue
		}
		params[param.Name] = values[i]
	}

	return Parsed{Command: matched, Params: params}, true
}

// Execute interpolates the command's prompt template, replacing every
// {{name}} placeholder with the parameter value.
func Execute(cmd SlashCommand, params map[string]string) string {
	prompt := cmd.PromptTemplate
	for name, value := range params {
		prompt = strings.ReplaceAll(prompt, "{{"+name+"}}", value)
	}
	return prompt
}

// Suggestions returns the commands whose trigger starts with the typed
// partial. A bare "/" suggests everything; non-slash input suggests nothing.
func Suggestions(partial string, commands []SlashCommand) []SlashCommand {
	if !strings.HasPrefix(partial, "/") {
		return nil
	}
	query := strings.ToLower(strings.TrimSpace(partial[1:]))
	if query == "" {
		return commands
	}

	matches := []SlashCommand{}
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Trigger), query) {
			matches = append(matches, cmd)
		}
	}
	return matches
}
