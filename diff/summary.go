package diff

import (
	"strings"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

// Summarize renders every divergence between two structural fingerprints as
// a human-readable report. The longest path prefix shared by all
// divergences, on both sides, is folded into a pair of header lines:
//
//	let a_sub = a[4]
//	let b_sub = b[4]
//	a_sub.keys().has() == c
//	b_sub.keys().has() == no such element
//
// With no divergences the report is "no differences".
func Summarize(a, b fingerprint.Fingerprint) (string, error) {
	seq, err := Iterate(a, b)
	if err != nil {
		return "", err
	}
	return render(seq), nil
}

// SummarizeNodes is Summarize on bare node trees.
func SummarizeNodes(a, b fingerprint.Node) string {
	return render(IterateNodes(a, b))
}

func render(seq func(yield func(Location, Location) bool)) string {
	type divergence struct {
		a, b Location
	}
	var diffs []divergence
	for la, lb := range seq {
		diffs = append(diffs, divergence{a: la, b: lb})
	}
	if len(diffs) == 0 {
		return "no differences"
	}

	// Longest label prefix common to every divergence on both sides,
	// root label excluded.
	prefix := diffs[0].a.labels[1:]
	for _, d := range diffs {
		prefix = commonPrefix(prefix, d.a.labels[1:])
		prefix = commonPrefix(prefix, d.b.labels[1:])
	}

	var sb strings.Builder
	shared := strings.Join(prefix, "")
	sb.WriteString("let a_sub = a" + shared + "\n")
	sb.WriteString("let b_sub = b" + shared)
	for _, d := range diffs {
		suffix := strings.Join(d.a.labels[len(prefix)+1:], "")
		sb.WriteString("\na_sub" + suffix + " == " + d.a.Node().String())
		sb.WriteString("\nb_sub" + suffix + " == " + d.b.Node().String())
	}
	return sb.String()
}

func commonPrefix(a, b []string) []string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
