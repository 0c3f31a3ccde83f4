package extraction

import "fmt"

// OffsetError is returned when a chunk cannot be located in the full text,
// so its entity offsets cannot be made document-relative.
type OffsetError struct {
	Chunk   string
	Message string
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset remap failed: %s (chunk %q)", e.Message, preview(e.Chunk, 40))
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
