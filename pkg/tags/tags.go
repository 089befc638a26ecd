// Package tags implements the streaming tag demultiplexer for LLM output.
// The model is instructed to partition its reply into bracketed sections
// ([PLAN]...[/PLAN], [TEXT]...[/TEXT], ...); the Processor turns an
// arbitrarily chunked token stream into typed section events, streaming some
// tags live and buffering others until their closing marker.
package tags

// Tag names a recognized section of the model's tagged response.
type Tag string

const (
	// TagNone marks content that arrived outside any recognized section.
	TagNone Tag = ""

	TagPlan      Tag = "plan"
	TagReasoning Tag = "reasoning"
	TagTool      Tag = "tool"
	TagText      Tag = "text"
	TagStatus    Tag = "status"
	TagSummary   Tag = "summary"

	// TagFullText is the buffered companion of TagText: the joined content
	// of a whole text section, emitted once on section close.
	TagFullText Tag = "full_text"

	// TagDebug is synthetic: emitted exactly once at end of stream and
	// carries the entire raw model output for observability.
	TagDebug Tag = "debug"
)

// Mode controls when a section's content is emitted.
type Mode int

const (
	// ModeBuffer accumulates the whole section and emits one event on close.
	ModeBuffer Mode = iota
	// ModeStream emits each content token immediately as it arrives.
	ModeStream
	// ModeStreamAndBuffer does both; the buffered event is re-tagged to the
	// configured companion tag.
	ModeStreamAndBuffer
)

// TagConfig describes how one recognized tag is processed.
type TagConfig struct {
	Mode Mode
	// Companion re-tags the buffered event for ModeStreamAndBuffer.
	Companion Tag
}

// Config maps each recognized tag to its processing mode. Tags absent from
// the map are unknown: their markers pass through as literal content.
type Config map[Tag]TagConfig

// DefaultConfig is the tag set the conversation agent instructs the model
// to emit.
func DefaultConfig() Config {
	return Config{
		TagPlan:      {Mode: ModeBuffer},
		TagReasoning: {Mode: ModeBuffer},
		TagTool:      {Mode: ModeBuffer},
		TagStatus:    {Mode: ModeBuffer},
		TagSummary:   {Mode: ModeBuffer},
		TagText:      {Mode: ModeStreamAndBuffer, Companion: TagFullText},
	}
}

// Event is one parsed unit of the model's response. For streamed tags the
// content is a single token; for buffered tags it is the whole section.
type Event struct {
	Tag     Tag
	Content string
}
