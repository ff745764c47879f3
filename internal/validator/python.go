package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError describes a parse failure in a scanned source block.
type SyntaxError struct {
	// Line is the 1-based line number where scanning failed.
	Line int
	// Msg describes the problem.
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Param is a single parameter in a function signature.
type Param struct {
	// Name is the parameter name.
	Name string
	// Annotated is true if the parameter carries a type annotation.
	Annotated bool
}

// Function is one function definition found in a source block.
type Function struct {
	// Name is the function identifier.
	Name string
	// Line is the 1-based line of the def header.
	Line int
	// Params lists the signature parameters (self/cls excluded).
	Params []Param
	// HasReturnAnnotation is true if the signature declares a return type.
	HasReturnAnnotation bool
	// HasDocstring is true if the body opens with a string literal.
	HasDocstring bool
	// Body holds the raw body lines of the function.
	Body []string
}

// Source is the result of scanning a Python source block.
type Source struct {
	// Functions lists the top-level and nested function definitions
	// in order of appearance.
	Functions []Function
}

// defHeader matches the start of a function definition and captures the
// indent and the identifier. The parameter list may span multiple lines.
var defHeader = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// snakeCase matches conventional Python function identifiers.
var snakeCase = regexp.MustCompile(`^_{0,2}[a-z][a-z0-9_]*_{0,2}$`)

// ScanPython performs a lightweight structural scan of Python source. It is
// not a full parser: it verifies bracket and string-literal balance, checks
// that every def header is well formed and has a body, and extracts function
// signatures and bodies for the downstream checks. It is deterministic and
// never executes anything.
func ScanPython(src string) (*Source, error) {
	if err := checkBalance(src); err != nil {
		return nil, err
	}

	lines := strings.Split(src, "\n")
	out := &Source{}

	for i := 0; i < len(lines); i++ {
		m := defHeader.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent := m[1]

		// Collect the full header, which may span lines until the
		// parameter list closes and the trailing colon appears.
		header := lines[i]
		headerLine := i + 1
		for !headerComplete(header) {
			i++
			if i >= len(lines) {
				return nil, &SyntaxError{Line: headerLine, Msg: "unterminated function header"}
			}
			header += "\n" + lines[i]
		}
		header = stripComment(header)
		if !strings.HasSuffix(strings.TrimSpace(header), ":") {
			return nil, &SyntaxError{Line: headerLine, Msg: "function header missing ':'"}
		}

		fn := Function{Name: m[2], Line: headerLine}
		parseSignature(header, &fn)

		// Body: consecutive lines indented deeper than the def header.
		bodyStart := i + 1
		for j := bodyStart; j < len(lines); j++ {
			line := lines[j]
			if strings.TrimSpace(line) == "" {
				fn.Body = append(fn.Body, line)
				continue
			}
			if !deeperIndent(line, indent) {
				break
			}
			fn.Body = append(fn.Body, line)
		}
		if firstNonBlank(fn.Body) == "" {
			return nil, &SyntaxError{Line: headerLine, Msg: fmt.Sprintf("function %q has no body", fn.Name)}
		}

		first := strings.TrimSpace(firstNonBlank(fn.Body))
		fn.HasDocstring = strings.HasPrefix(first, `"""`) || strings.HasPrefix(first, `'''`) ||
			strings.HasPrefix(first, `r"""`) || strings.HasPrefix(first, `r'''`)

		out.Functions = append(out.Functions, fn)
	}

	return out, nil
}

// headerComplete reports whether a def header has a balanced parameter list.
func headerComplete(header string) bool {
	depth := 0
	inString := byte(0)
	for i := 0; i < len(header); i++ {
		c := header[i]
		if inString != 0 {
			if c == inString && (i == 0 || header[i-1] != '\\') {
				inString = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
		case '#':
			// Rest of line is a comment.
			for i < len(header) && header[i] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth <= 0 && strings.Contains(header, ")")
}

// parseSignature extracts parameters and the return annotation from a
// complete def header.
func parseSignature(header string, fn *Function) {
	open := strings.Index(header, "(")
	if open < 0 {
		return
	}
	// Find the matching close paren.
	depth := 0
	end := -1
	for i := open; i < len(header); i++ {
		switch header[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return
	}

	rest := header[end+1:]
	fn.HasReturnAnnotation = strings.Contains(stripComment(rest), "->")

	for _, raw := range splitTopLevel(header[open+1 : end]) {
		p := strings.TrimSpace(raw)
		if p == "" || p == "*" || p == "/" {
			continue
		}
		p = strings.TrimLeft(p, "*")
		name := p
		annotated := false
		if idx := strings.IndexAny(p, ":="); idx >= 0 {
			name = strings.TrimSpace(p[:idx])
			annotated = p[idx] == ':'
		}
		if name == "self" || name == "cls" {
			continue
		}
		fn.Params = append(fn.Params, Param{Name: name, Annotated: annotated})
	}
}

// splitTopLevel splits a parameter list on commas that are not nested
// inside brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// checkBalance verifies bracket and string-literal balance across the
// whole source, tracking single, double, and triple-quoted strings and
// comments.
func checkBalance(src string) error {
	line := 1
	depth := 0
	var openLine int
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case strings.HasPrefix(src[i:], `"""`) || strings.HasPrefix(src[i:], `'''`):
			quote := src[i : i+3]
			startLine := line
			i += 3
			for i < len(src) && !strings.HasPrefix(src[i:], quote) {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			if i >= len(src) {
				return &SyntaxError{Line: startLine, Msg: "unterminated triple-quoted string"}
			}
			i += 3
		case c == '\'' || c == '"':
			quote := c
			startLine := line
			i++
			for i < len(src) && src[i] != quote {
				if src[i] == '\\' {
					i++
				} else if src[i] == '\n' {
					return &SyntaxError{Line: startLine, Msg: "unterminated string literal"}
				}
				i++
			}
			if i >= len(src) {
				return &SyntaxError{Line: startLine, Msg: "unterminated string literal"}
			}
			i++
		case c == '(' || c == '[' || c == '{':
			if depth == 0 {
				openLine = line
			}
			depth++
			i++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return &SyntaxError{Line: line, Msg: fmt.Sprintf("unmatched %q", string(c))}
			}
			i++
		default:
			i++
		}
	}
	if depth != 0 {
		return &SyntaxError{Line: openLine, Msg: "unbalanced brackets"}
	}
	return nil
}

// stripComment removes # comments from a line or multi-line fragment. A #
// inside a string literal is not a comment start, so quote state is tracked
// the same way headerComplete tracks it.
func stripComment(s string) string {
	var b strings.Builder
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
			b.WriteByte(c)
		case '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// deeperIndent reports whether a line is indented strictly deeper than the
// given indent prefix.
func deeperIndent(line, indent string) bool {
	if !strings.HasPrefix(line, indent) {
		return false
	}
	rest := line[len(indent):]
	return strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t")
}

// firstNonBlank returns the first non-blank line, or "".
func firstNonBlank(lines []string) string {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

// IsSnakeCase reports whether a function identifier follows Python's
// conventional snake_case style.
func IsSnakeCase(name string) bool {
	return snakeCase.MatchString(name)
}
