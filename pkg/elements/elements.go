// Package elements maps atomic numbers to chemical symbols and plot colors.
package elements

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// symbols is indexed by atomic number; index 0 is the placeholder "X".
var symbols = [...]string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var numbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		if z == 0 {
			continue
		}
		m[s] = z
	}
	return m
}()

// MaxNumber is the largest atomic number known to the table.
const MaxNumber = len(symbols) - 1

// Symbol returns the chemical symbol for atomic number z, or "X" if unknown.
func Symbol(z int) string {
	if z <= 0 || z > MaxNumber {
		return symbols[0]
	}
	return symbols[z]
}

// Normalize returns the canonical capitalization of a symbol ("FE" -> "Fe").
func Normalize(symbol string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(symbol))
}

// Number returns the atomic number for a symbol. Case is ignored and trailing
// digits or labels (e.g. "O1", "Fe_a") are stripped.
func Number(symbol string) (int, bool) {
	s := strings.TrimSpace(symbol)
	end := 0
	for end < len(s) && end < 2 {
		c := s[end]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		end++
	}
	if end == 0 {
		return 0, false
	}
	if z, ok := numbers[Normalize(s[:end])]; ok {
		return z, true
	}
	// Single-letter element followed by a label letter, e.g. "Oa"
	z, ok := numbers[Normalize(s[:1])]
	return z, ok
}
