package tags

import (
	"strings"
)

// Processor is an online parser over an LLM token stream. Feed it tokens as
// they arrive; it emits events as soon as content can be unambiguously
// classified. Tag markers may be split across any number of tokens: a carry
// buffer holds up to the length of the longest possible marker so split
// markers are reassembled before classification.
//
// A Processor is single-use and owned by one request. It is not safe for
// concurrent use.
type Processor struct {
	cfg       Config
	maxMarker int

	carry    string
	current  Tag
	open     bool
	section  strings.Builder // buffered content of the open section
	untagged strings.Builder // content outside any recognized section
	debug    strings.Builder // everything, verbatim
}

// NewProcessor creates a processor for the given tag configuration.
func NewProcessor(cfg Config) *Processor {
	longest := 0
	for tag := range cfg {
		if len(tag) > longest {
			longest = len(tag)
		}
	}
	return &Processor{
		cfg: cfg,
		// "[/" + name + "]"
		maxMarker: longest + 3,
	}
}

// Feed consumes one token and returns the events it completes. Tokens are
// arbitrary slices of the model output; markers split across tokens are
// reassembled internally.
func (p *Processor) Feed(token string) []Event {
	p.debug.WriteString(token)
	p.carry += token

	var out []Event
	for p.carry != "" {
		i := strings.IndexByte(p.carry, '[')
		if i < 0 {
			p.appendContent(p.carry, &out)
			p.carry = ""
			break
		}
		if i > 0 {
			p.appendContent(p.carry[:i], &out)
			p.carry = p.carry[i:]
		}

		// carry starts with '['. Look for the closing bracket.
		j := strings.IndexByte(p.carry, ']')
		if j < 0 {
			// No ']' yet. If what we have already cannot be a marker,
			// release the literal prefix instead of stalling the stream.
			if k := invalidMarkerByte(p.carry); k > 0 {
				p.appendContent(p.carry[:k], &out)
				p.carry = p.carry[k:]
				continue
			}
			if len(p.carry) > p.maxMarker {
				p.appendContent(p.carry[:1], &out)
				p.carry = p.carry[1:]
				continue
			}
			// Marker may still be completing in the next token.
			break
		}

		marker := p.carry[:j+1]
		name, closing, ok := parseMarker(marker)
		if !ok {
			// Not a well-formed marker. If another '[' opens inside it,
			// everything before that bracket is literal content.
			if k := strings.IndexByte(marker[1:], '['); k >= 0 {
				p.appendContent(p.carry[:k+1], &out)
				p.carry = p.carry[k+1:]
				continue
			}
			p.appendContent(marker, &out)
			p.carry = p.carry[j+1:]
			continue
		}

		tag := Tag(name)
		if _, known := p.cfg[tag]; !known {
			// Unknown tags pass through as plain content; never dropped.
			p.appendContent(marker, &out)
			p.carry = p.carry[j+1:]
			continue
		}

		p.carry = p.carry[j+1:]
		if closing {
			if p.open && tag == p.current {
				p.flushSection(&out)
			} else {
				// Close without a matching open: literal content.
				p.appendContent(marker, &out)
			}
			continue
		}

		// Opening marker. A new section implicitly closes the prior one
		// (nested tags are not supported).
		if p.open {
			p.flushSection(&out)
		} else {
			p.flushUntagged(&out)
		}
		p.current = tag
		p.open = true
	}
	return out
}

// Finish signals end-of-stream: an unclosed section is implicitly closed and
// emitted, leftover partial markers become literal content, and the terminal
// debug event carrying the whole raw output is appended. The processor is
// reset afterwards.
func (p *Processor) Finish() []Event {
	var out []Event
	if p.carry != "" {
		p.appendContent(p.carry, &out)
		p.carry = ""
	}
	if p.open {
		p.flushSection(&out)
	} else {
		p.flushUntagged(&out)
	}
	out = append(out, Event{Tag: TagDebug, Content: p.debug.String()})
	p.reset()
	return out
}

// appendContent routes literal content to the open section (streaming it when
// the tag's mode asks for that) or to the untagged buffer.
func (p *Processor) appendContent(s string, out *[]Event) {
	if s == "" {
		return
	}
	if !p.open {
		p.untagged.WriteString(s)
		return
	}
	cfg := p.cfg[p.current]
	switch cfg.Mode {
	case ModeStream:
		*out = append(*out, Event{Tag: p.current, Content: s})
	case ModeStreamAndBuffer:
		*out = append(*out, Event{Tag: p.current, Content: s})
		p.section.WriteString(s)
	default:
		p.section.WriteString(s)
	}
}

// flushSection closes the open section and emits its buffered event. An empty
// section still emits: some tags merely signal a transition.
func (p *Processor) flushSection(out *[]Event) {
	cfg := p.cfg[p.current]
	content := p.section.String()
	p.section.Reset()

	switch cfg.Mode {
	case ModeBuffer:
		*out = append(*out, Event{Tag: p.current, Content: content})
	case ModeStreamAndBuffer:
		companion := cfg.Companion
		if companion == TagNone {
			companion = p.current
		}
		*out = append(*out, Event{Tag: companion, Content: content})
	}

	p.current = TagNone
	p.open = false
}

// flushUntagged emits accumulated outside-section content under TagNone so no
// character is ever dropped from the event stream.
func (p *Processor) flushUntagged(out *[]Event) {
	if p.untagged.Len() == 0 {
		return
	}
	*out = append(*out, Event{Tag: TagNone, Content: p.untagged.String()})
	p.untagged.Reset()
}

func (p *Processor) reset() {
	p.carry = ""
	p.current = TagNone
	p.open = false
	p.section.Reset()
	p.untagged.Reset()
	p.debug.Reset()
}

// parseMarker validates a candidate marker "[NAME]" or "[/NAME]" and returns
// the lowercased name.
func parseMarker(marker string) (name string, closing bool, ok bool) {
	inner := marker[1 : len(marker)-1]
	closing = strings.HasPrefix(inner, "/")
	if closing {
		inner = inner[1:]
	}
	if inner == "" {
		return "", false, false
	}
	for i := 0; i < len(inner); i++ {
		if !isNameByte(inner[i]) {
			return "", false, false
		}
	}
	return strings.ToLower(inner), closing, true
}

// invalidMarkerByte returns the index of the first byte in a '['-prefixed
// carry that rules out a marker, or 0 when the prefix is still viable.
// The returned index is a literal-content boundary: everything before it can
// be released.
func invalidMarkerByte(carry string) int {
	for i := 1; i < len(carry); i++ {
		c := carry[i]
		if c == '/' && i == 1 {
			continue
		}
		if !isNameByte(c) {
			return i
		}
	}
	return 0
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
