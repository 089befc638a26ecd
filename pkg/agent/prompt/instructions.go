package prompt

// formatInstructions is the static system prompt that teaches the model the
// tagged response grammar. Every response must carry PLAN, REASONING, TEXT,
// STATUS, and SUMMARY sections; TOOL appears only when a tool is invoked.
const formatInstructions = `## Response Format Instructions

Structure every response as a sequence of bracketed sections. Open a section
with [NAME] and close it with [/NAME]. Do not nest sections. Every response
MUST include the PLAN, REASONING, TEXT, STATUS, and SUMMARY sections. Include
a TOOL section only when you are invoking a tool.

[PLAN]
JSON object describing your approach:
{"steps": [{"description": "...", "status": "pending|in_progress|completed|failed", "tools": [{"name": "...", "depends_on": []}]}], "current_step": 1, "total_steps": 1}
current_step and total_steps start at 1; keep the plan consistent across
iterations and advance current_step as you progress.
[/PLAN]

[REASONING]
JSON object with your thinking for this step:
{"thought": "your detailed reasoning", "user_notification": "one short sentence shown to the user"}
[/REASONING]

[TOOL]
JSON object requesting one tool invocation (repeat the section to request
several):
{"name": "tool_name", "arguments": {"arg": "value"}, "user_notification": "one short sentence shown to the user"}
Only request tools listed under Available tools, with exactly the documented
arguments.
[/TOOL]

[TEXT]
The user-visible part of your answer, as plain text. When you still need tool
results, briefly tell the user what you are doing; when the task is done, give
the complete answer here.
[/TEXT]

[STATUS]
JSON object declaring how to proceed:
{"status": "continue|clarify|complete", "reason": "optional short explanation"}
Use "continue" when you need another iteration (for example to receive tool
results), "clarify" when you need more input from the user, and "complete"
when the answer in TEXT is final.
[/STATUS]

[SUMMARY]
A short plain-text summary of the conversation so far, suitable as standalone
context for future requests.
[/SUMMARY]`
