package agent

import (
	"fmt"
	"strings"
)

// systemPrompt renders the agent instructions: persona, grounded note
// context, and the tool catalog with the JSON calling convention. The
// catalog text comes from the same Spec values the registry dispatches on.
func systemPrompt(noteContext string) string {
	var b strings.Builder

	b.WriteString("You are the assistant inside SmartNotes, a personal note-taking app. ")
	b.WriteString("Answer using the notes provided below. When the notes do not contain ")
	b.WriteString("the answer, say so instead of inventing one.\n\n")

	b.WriteString("## Notes\n\n")
	b.WriteString(noteContext)
	b.WriteString("\n\n")

	b.WriteString("## Tools\n\n")
	b.WriteString("You can call tools to read and change the notebook. To call a tool, ")
	b.WriteString("reply with a single JSON object and nothing else:\n\n")
	b.WriteString("{\"tool\": \"<name>\", \"arguments\": {\"<param>\": \"<value>\"}}\n\n")
	b.WriteString("The tool result comes back in the next message. When you have what ")
	b.WriteString("you need, answer the user in plain text without any JSON.\n\n")
	b.WriteString("Available tools:\n\n")

	for _, spec := range Catalog() {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name, spec.Description)
		for _, p := range spec.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "    - %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
		}
	}

	return b.String()
}
