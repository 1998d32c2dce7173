package elements

// colors holds Jmol-style colors for the elements common in ionic crystals.
var colors = map[int]string{
	1:  "#FFFFFF", // H
	3:  "#CC80FF", // Li
	4:  "#C2FF00", // Be
	5:  "#FFB5B5", // B
	6:  "#909090", // C
	7:  "#3050F8", // N
	8:  "#FF0D0D", // O
	9:  "#90E050", // F
	11: "#AB5CF2", // Na
	12: "#8AFF00", // Mg
	13: "#BFA6A6", // Al
	14: "#F0C8A0", // Si
	15: "#FF8000", // P
	16: "#FFFF30", // S
	17: "#1FF01F", // Cl
	19: "#8F40D4", // K
	20: "#3DFF00", // Ca
	21: "#E6E6E6", // Sc
	22: "#BFC2C7", // Ti
	23: "#A6A6AB", // V
	24: "#8A99C7", // Cr
	25: "#9C7AC7", // Mn
	26: "#E06633", // Fe
	27: "#F090A0", // Co
	28: "#50D050", // Ni
	29: "#C88033", // Cu
	30: "#7D80B0", // Zn
	31: "#C28F8F", // Ga
	35: "#A62929", // Br
	38: "#00FF00", // Sr
	39: "#94FFFF", // Y
	40: "#94E0E0", // Zr
	41: "#73C2C9", // Nb
	42: "#54B5B5", // Mo
	44: "#248F8F", // Ru
	45: "#0A7D8C", // Rh
	46: "#006985", // Pd
	47: "#C0C0C0", // Ag
	50: "#668080", // Sn
	53: "#940094", // I
	56: "#00C900", // Ba
	57: "#70D4FF", // La
	58: "#FFFFC7", // Ce
	72: "#4DC2FF", // Hf
	73: "#4DA6FF", // Ta
	74: "#2194D6", // W
	76: "#266696", // Os
	77: "#175487", // Ir
	78: "#D0D0E0", // Pt
	79: "#FFD123", // Au
}

// DefaultColor is used for elements without a table entry.
const DefaultColor = "#808080"

// Color returns the hex plot color for atomic number z.
func Color(z int) string {
	if c, ok := colors[z]; ok {
		return c
	}
	return DefaultColor
}
