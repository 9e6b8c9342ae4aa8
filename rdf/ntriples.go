package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntDecoder struct {
	reader *bufio.Reader
	line   int
	err    error
}

func newNTriplesDecoder(r io.Reader) *ntDecoder {
	return &ntDecoder{reader: bufio.NewReader(r)}
}

// Next returns the next triple, or io.EOF when the input is exhausted.
func (d *ntDecoder) Next() (Triple, error) {
	if d.err != nil {
		return Triple{}, d.err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			if err != io.EOF {
				err = fmt.Errorf("%w: %v", ErrIO, err)
			}
			d.err = err
			return Triple{}, err
		}
		d.line++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		triple, err := parseNTLine(line)
		if err != nil {
			d.err = wrapParseError(FormatNTriples, line, d.line, err)
			return Triple{}, d.err
		}
		return triple, nil
	}
}

func (d *ntDecoder) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func parseNTLine(line string) (Triple, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Triple{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Triple{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Triple{}, err
	}
	if !cursor.consume('.') {
		return Triple{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Triple{}, cursor.errorf("unexpected trailing content")
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch == '\\' {
			if c.pos+1 >= len(c.input) {
				return Literal{}, c.errorf("unterminated escape")
			}
			next := c.input[c.pos+1]
			switch next {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			case '"':
				builder.WriteByte('"')
			case '\\':
				builder.WriteByte('\\')
			default:
				builder.WriteByte(next)
			}
			c.pos += 2
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("ntriples: "+format, args...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.':
		return true
	default:
		return false
	}
}

type ntEncoder struct {
	writer *bufio.Writer
	err    error
}

func newNTriplesEncoder(w io.Writer) *ntEncoder {
	return &ntEncoder{writer: bufio.NewWriter(w)}
}

func (e *ntEncoder) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("ntriples: missing statement fields")
	}
	_, err := e.writer.WriteString(t.String() + "\n")
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntEncoder) Close() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + iri.Value + ">"
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		return renderLiteral(value, renderIRI)
	default:
		return ""
	}
}

func renderLiteral(lit Literal, datatype func(IRI) string) string {
	quoted := quoteLexical(lit.Lexical)
	if lit.Lang != "" {
		return quoted + "@" + lit.Lang
	}
	if lit.Datatype.Value != "" && lit.Datatype.Value != XSDString {
		return quoted + "^^" + datatype(lit.Datatype)
	}
	return quoted
}

var lexicalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quoteLexical(lexical string) string {
	return `"` + lexicalEscaper.Replace(lexical) + `"`
}
