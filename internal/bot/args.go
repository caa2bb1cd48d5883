package bot

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned for input with an unbalanced quote
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Args are the parsed arguments of a command invocation
type Args struct {
	Positional []string
	Flags      map[string]string
}

// Text joins the positional arguments back into a single string
func (a Args) Text() string {
	return strings.Join(a.Positional, " ")
}

// Flag returns the value of a --name flag
func (a Args) Flag(name string) (string, bool) {
	value, ok := a.Flags[name]
	return value, ok
}

// Bool reports whether a flag was passed without being explicitly disabled
func (a Args) Bool(name string) bool {
	value, ok := a.Flags[name]
	if !ok {
		return false
	}
	switch strings.ToLower(value) {
	case "false", "no", "0", "off":
		return false
	}
	return true
}

// Shift splits off the first positional argument
func (a Args) Shift() (string, Args) {
	if len(a.Positional) == 0 {
		return "", a
	}
	return a.Positional[0], Args{Positional: a.Positional[1:], Flags: a.Flags}
}

// ParseArgs tokenizes input and separates "--name=value" and "--name" flags
// from positional arguments. Flag names are lowercased.
func ParseArgs(input string) (Args, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return Args{}, err
	}

	args := Args{Positional: []string{}, Flags: map[string]string{}}
	for _, token := range tokens {
		if !token.quoted && strings.HasPrefix(token.text, "--") && len(token.text) > 2 {
			name, value, ok := strings.Cut(token.text[2:], "=")
			if !ok {
				value = "true"
			}
			args.Flags[strings.ToLower(name)] = value
			continue
		}
		args.Positional = append(args.Positional, token.text)
	}
	return args, nil
}

type token struct {
	text string
	// quoted is set when the whole token was a quoted string
	quoted bool
}

// Tokenize splits input on whitespace, keeping quoted sections together.
// Quotes may appear inside a token, so --title="better v-for" is one token.
func Tokenize(input string) ([]string, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, t.text)
	}
	return result, nil
}

func tokenize(input string) ([]token, error) {
	var (
		tokens  []token
		current strings.Builder
		quote   rune
		last    rune
		started bool
		quoted  bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, token{text: current.String(), quoted: quoted})
		}
		current.Reset()
		started = false
		quoted = false
		last = 0
	}

	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case isOpeningQuote(r) && (!started || last == '='):
			quote = r
			if r == '“' {
				quote = '”'
			}
			quoted = !started
			started = true
		case unicode.IsSpace(r):
			flush()
		default:
			// Apostrophes inside words ("don't") are plain text
			quoted = false
			started = true
			last = r
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	flush()

	return tokens, nil
}

func isOpeningQuote(r rune) bool {
	return r == '"' || r == '\'' || r == '“'
}
