package runner

import (
	"fmt"
	"strings"
)

// systemInstruction renders the auto-generated system prompt block: the
// available tools, the current variable bindings, and the usage rules for
// the variable-indirection syntax.
func (r *Runner) systemInstruction() string {
	var b strings.Builder

	b.WriteString("Available tools:\n")
	if r.registry.Len() == 0 {
		b.WriteString("(no tools registered)\n")
	}
	for _, d := range r.registry.Definitions() {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, strings.TrimSpace(d.Description))
	}

	b.WriteString("\nAvailable variables:\n")
	b.WriteString(r.store.Describe())
	b.WriteString("\n\n")

	b.WriteString(`IMPORTANT - Variable Usage:
When you need to use a stored variable in a function call, you MUST use the following syntax:
- For function arguments: {"variable": "variable_name"}
- For example, if you want to use the 'current_user' variable in a function call:
  {"user_id": {"variable": "current_user"}}

Remember:
- Always perform one operation at a time
- Use intermediate results from previous steps
- If a step requires multiple tools, execute them sequentially
- If you're unsure about the next step, explain your reasoning
- You can use both stored variables and values from the prompt
- When using stored variables, ALWAYS use the {"variable": "variable_name"} syntax`)

	return b.String()
}
