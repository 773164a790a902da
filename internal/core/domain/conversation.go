package domain

import "strings"

// Conversation is the running transcript of a synthesis chat.
// It is passed to template generation as context.
type Conversation struct {
	lines []string
}

// Record appends a user turn and returns the transcript as it was before
// the turn was added.
func (c *Conversation) Record(input string) string {
	prev := c.Transcript()
	c.lines = append(c.lines, "User: "+input)
	return prev
}

// Transcript returns the newline-joined transcript.
func (c *Conversation) Transcript() string {
	return strings.Join(c.lines, "\n")
}

// Len returns the number of recorded turns.
func (c *Conversation) Len() int {
	return len(c.lines)
}

// Reset clears the transcript.
func (c *Conversation) Reset() {
	c.lines = nil
}
