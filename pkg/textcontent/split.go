package textcontent

import (
	"strings"
)

// splitChunks splits the concatenation of chunks by sep without building the
// concatenation. The last fragment of each chunk is stitched to the first
// fragment of the next one; a separator that straddles a chunk boundary is
// detected by probing the bytes around the boundary.
func splitChunks(chunks []string, sep string) []string {
	if sep == "" {
		parts := make([]string, 0)
		for _, c := range chunks {
			parts = append(parts, strings.Split(c, "")...)
		}
		return parts
	}

	var (
		parts []string
		// frag is the fragment that has been started but not yet
		// terminated by a separator. It never contains sep.
		frag  strings.Builder
		reach = len(sep) - 1
	)
	for _, c := range chunks {
		start := 0
		if frag.Len() > 0 && reach > 0 {
			tail := frag.String()
			head := tail[max(0, len(tail)-reach):]
			probe := head + c[:min(reach, len(c))]
			// Any match in probe begins in head: the part taken from c is
			// shorter than sep.
			if i := strings.Index(probe, sep); i >= 0 {
				parts = append(parts, tail[:len(tail)-len(head)+i])
				frag.Reset()
				start = i + len(sep) - len(head)
			}
		}

		pieces := strings.Split(c[start:], sep)
		frag.WriteString(pieces[0])
		if len(pieces) == 1 {
			continue
		}
		parts = append(parts, frag.String())
		frag.Reset()
		parts = append(parts, pieces[1:len(pieces)-1]...)
		frag.WriteString(pieces[len(pieces)-1])
	}
	return append(parts, frag.String())
}
