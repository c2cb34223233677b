package gadget

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

// randIntn returns a uniform integer in [0, n) drawn from r, 0 < n <= 256.
// Bytes above the largest multiple of n are rejected to avoid modulo bias.
func randIntn(r io.Reader, n int) (int, error) {
	limit := 256 - 256%n
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, fmt.Errorf("read random source: %w", err)
		}
		if int(b[0]) < limit {
			return int(b[0]) % n, nil
		}
	}
}

// CodenameGenerator produces "<Adjective> <Noun>" names. Names are not unique.
type CodenameGenerator struct {
	rand       io.Reader
	adjectives []string
	nouns      []string
}

// NewCodenameGenerator uses r as its random source; nil selects crypto/rand.
func NewCodenameGenerator(r io.Reader) *CodenameGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &CodenameGenerator{rand: r, adjectives: adjectives, nouns: nouns}
}

// Generate returns a two-word capitalized codename.
func (g *CodenameGenerator) Generate() (string, error) {
	ai, err := randIntn(g.rand, len(g.adjectives))
	if err != nil {
		return "", err
	}
	ni, err := randIntn(g.rand, len(g.nouns))
	if err != nil {
		return "", err
	}
	return capitalize(g.adjectives[ai]) + " " + capitalize(g.nouns[ni]), nil
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the size of a self-destruct confirmation code.
const CodeLength = 6

// CodeGenerator produces cosmetic confirmation codes. Codes are never stored or checked.
type CodeGenerator struct {
	rand io.Reader
}

// NewCodeGenerator uses r as its random source; nil selects crypto/rand.
func NewCodeGenerator(r io.Reader) *CodeGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &CodeGenerator{rand: r}
}

// Generate returns CodeLength characters from [A-Z0-9].
func (g *CodeGenerator) Generate() (string, error) {
	var b strings.Builder
	b.Grow(CodeLength)
	for n := 0; n < CodeLength; n++ {
		i, err := randIntn(g.rand, len(codeAlphabet))
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[i])
	}
	return b.String(), nil
}

var adjectives = []string{
	"silent", "crimson", "hidden", "arctic", "golden", "shadow", "velvet", "iron",
	"midnight", "rapid", "phantom", "scarlet", "quiet", "electric", "frozen", "hollow",
	"amber", "cobalt", "savage", "lucky", "distant", "brave", "clever", "covert",
	"emerald", "fearless", "gentle", "hazy", "jagged", "lunar", "molten", "nimble",
	"obsidian", "polar", "restless", "solar", "stealthy", "tidal", "urban", "wicked",
}

var nouns = []string{
	"falcon", "viper", "needle", "lantern", "compass", "raven", "cipher", "harbor",
	"anvil", "whisper", "garrote", "monocle", "umbrella", "briefcase", "pen", "watch",
	"lighter", "cufflink", "locket", "gauntlet", "scope", "beacon", "dagger", "mirror",
	"orchid", "panther", "quiver", "satchel", "thimble", "vortex", "wasp", "jackal",
	"kestrel", "mantis", "nightjar", "osprey", "python", "sparrow", "tortoise", "zephyr",
}
