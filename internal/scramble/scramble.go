// Package scramble builds random scramble sequences in cube notation.
package scramble

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// DefaultLength is the number of moves in a standard scramble.
const DefaultLength = 25

// ErrInvalidNotation is returned when a scramble token cannot be parsed.
var ErrInvalidNotation = errors.New("scramble: invalid move notation")

// Face is a cube face in standard notation.
type Face byte

const (
	FaceU Face = 'U'
	FaceD Face = 'D'
	FaceF Face = 'F'
	FaceB Face = 'B'
	FaceL Face = 'L'
	FaceR Face = 'R'
)

// Faces lists every face a scramble may turn.
var Faces = []Face{FaceU, FaceD, FaceF, FaceB, FaceL, FaceR}

// Opposite returns the face on the other side of the cube.
func (f Face) Opposite() Face {
	switch f {
	case FaceU:
		return FaceD
	case FaceD:
		return FaceU
	case FaceF:
		return FaceB
	case FaceB:
		return FaceF
	case FaceL:
		return FaceR
	case FaceR:
		return FaceL
	default:
		return 0
	}
}

// Modifier is the turn suffix of a move.
type Modifier int

const (
	None   Modifier = iota // quarter turn clockwise
	Prime                  // quarter turn counter-clockwise
	Double                 // half turn
)

// Modifiers lists every modifier a scramble may use.
var Modifiers = []Modifier{None, Prime, Double}

// Move is a single scramble token.
type Move struct {
	Face     Face
	Modifier Modifier
}

// String returns the notation for the move, e.g. R, R', R2.
func (m Move) String() string {
	switch m.Modifier {
	case Prime:
		return string(m.Face) + "'"
	case Double:
		return string(m.Face) + "2"
	default:
		return string(m.Face)
	}
}

// Generator produces randomized scrambles.
type Generator struct {
	rnd    *rand.Rand
	length int
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), length: DefaultLength}
}

// WithLength sets the number of moves per scramble. Non-positive values keep the default.
func (g *Generator) WithLength(n int) *Generator {
	if n > 0 {
		g.length = n
	}
	return g
}

// Generate draws a scramble where no move turns the same face as, or the
// face opposite to, the move before it.
func (g *Generator) Generate() []Move {
	moves := make([]Move, 0, g.length)
	var prev Face
	for i := 0; i < g.length; i++ {
		var mv Move
		for {
			mv = Move{
				Face:     Faces[g.rnd.Intn(len(Faces))],
				Modifier: Modifiers[g.rnd.Intn(len(Modifiers))],
			}
			if i == 0 || (mv.Face != prev && mv.Face != prev.Opposite()) {
				break
			}
		}
		moves = append(moves, mv)
		prev = mv.Face
	}
	return moves
}

// String generates a scramble and formats it as space-separated notation.
func (g *Generator) String() string {
	return Format(g.Generate())
}

// Format joins moves with single spaces.
func Format(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Valid reports whether every adjacent pair turns unrelated faces.
func Valid(moves []Move) bool {
	for i := 1; i < len(moves); i++ {
		prev := moves[i-1].Face
		if moves[i].Face == prev || moves[i].Face == prev.Opposite() {
			return false
		}
	}
	return true
}

// Parse reads a space-separated scramble back into moves.
func Parse(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, field := range fields {
		mv, err := parseMove(field)
		if err != nil {
			return nil, err
		}
		moves = append(moves, mv)
	}
	return moves, nil
}

func parseMove(s string) (Move, error) {
	if len(s) == 0 || len(s) > 2 {
		return Move{}, ErrInvalidNotation
	}
	face := Face(s[0])
	if face.Opposite() == 0 {
		return Move{}, ErrInvalidNotation
	}
	mv := Move{Face: face}
	if len(s) == 2 {
		switch s[1] {
		case '\'':
			mv.Modifier = Prime
		case '2':
			mv.Modifier = Double
		default:
			return Move{}, ErrInvalidNotation
		}
	}
	return mv, nil
}
