// Package genome derives cat specimen traits from a genome string. The same
// genome always yields the same traits; rendering the specimen is out of
// scope here.
package genome

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// A genome is 16 bytes encoded as 32 hex characters.
const Length = 32

var genomePattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

var temperaments = []string{
	"placid", "curious", "aloof", "clingy", "feral", "regal", "anxious", "mellow",
}

var coatPatterns = []string{
	"solid", "tabby", "tortoiseshell", "bioluminescent-spots", "gradient", "starfield",
}

var nameRoots = []string{
	"Nyx", "Orion", "Vega", "Quark", "Luma", "Zephyr", "Iris", "Pico",
	"Nova", "Rune", "Ash", "Bolt", "Echo", "Fern", "Glim", "Halo",
}

var nameSuffixes = []string{
	"paw", "tail", "whisker", "gene", "strand", "helix", "byte", "spark",
}

// Traits are the derived physical and behavioral attributes of a specimen.
type Traits struct {
	Size          int    // cm at the shoulder, 25..60
	Fluffiness    int    // 1..10
	GlowIntensity int    // 0..100
	WhiskerLength int    // mm, 40..120
	Temperament   string
	CoatPattern   string
}

// Validate reports whether the genome has the expected 32-hex-char shape.
func Validate(genome string) error {
	if !genomePattern.MatchString(genome) {
		return fmt.Errorf("genome must be a %d-character hex string", Length)
	}
	return nil
}

// NewRandom returns a freshly generated random genome.
func NewRandom() string {
	buf := make([]byte, Length/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Derive maps genome bytes onto bounded trait ranges. Each trait reads a
// fixed byte position, so two genomes differing in one byte differ in at
// most one trait.
func Derive(genome string) (Traits, error) {
	if err := Validate(genome); err != nil {
		return Traits{}, err
	}
	b, err := hex.DecodeString(genome)
	if err != nil {
		return Traits{}, err
	}

	return Traits{
		Size:          25 + int(b[0])%36,
		Fluffiness:    1 + int(b[1])%10,
		GlowIntensity: int(b[2]) * 100 / 255,
		WhiskerLength: 40 + int(b[3])%81,
		Temperament:   temperaments[int(b[4])%len(temperaments)],
		CoatPattern:   coatPatterns[int(b[5])%len(coatPatterns)],
	}, nil
}

// DeriveName builds a stable display name from the tail bytes of the genome.
func DeriveName(genome string) (string, error) {
	if err := Validate(genome); err != nil {
		return "", err
	}
	b, err := hex.DecodeString(genome)
	if err != nil {
		return "", err
	}
	root := nameRoots[int(b[14])%len(nameRoots)]
	suffix := nameSuffixes[int(b[15])%len(nameSuffixes)]
	return root + " " + suffix, nil
}
