package palette

import (
	"strings"

	"github.com/gogpu/pixelsrc/internal/color"
)

// Token is a resolved palette entry.
type Token struct {
	Name  string
	Color color.RGBA8
}

// Palette maps tokens to colors. It is immutable once Resolve returns and
// may be shared between sprites.
type Palette struct {
	Name   string
	tokens []Token
	index  map[string]int
}

func newPalette(name string) *Palette {
	return &Palette{Name: name, index: make(map[string]int)}
}

// add sets a token, replacing an earlier token of the same name in place.
func (p *Palette) add(name string, c color.RGBA8) {
	if i, ok := p.index[name]; ok {
		p.tokens[i].Color = c
		return
	}
	p.index[name] = len(p.tokens)
	p.tokens = append(p.tokens, Token{Name: name, Color: c})
}

// Lookup returns the color of token. "{skin}" and "skin" name the same
// token, with the exact spelling tried first.
func (p *Palette) Lookup(token string) (color.RGBA8, bool) {
	if p == nil {
		return color.RGBA8{}, false
	}
	if i, ok := p.index[token]; ok {
		return p.tokens[i].Color, true
	}
	alt := "{" + token + "}"
	if strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") && len(token) >= 2 {
		alt = token[1 : len(token)-1]
	}
	if i, ok := p.index[alt]; ok {
		return p.tokens[i].Color, true
	}
	return color.RGBA8{}, false
}

// Tokens returns a copy of the tokens in declaration order, ramp tokens
// expanded in place.
func (p *Palette) Tokens() []Token {
	out := make([]Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Len returns the number of tokens.
func (p *Palette) Len() int { return len(p.tokens) }
