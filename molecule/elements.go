package molecule

import "fmt"

// symbols lists element symbols indexed by atomic number; index 0 is the wildcard.
var symbols = [...]string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// Frequently referenced atomic numbers.
const (
	Hydrogen   = 1
	Boron      = 5
	Carbon     = 6
	Nitrogen   = 7
	Oxygen     = 8
	Fluorine   = 9
	Phosphorus = 15
	Sulfur     = 16
	Chlorine   = 17
	Selenium   = 34
	Bromine    = 35
	Iodine     = 53
)

// valences holds the neutral default valences for elements that take implicit
// hydrogens. Elements absent from the table never receive implicit hydrogens.
var valences = map[int][]int{
	1:  {1},
	5:  {3},
	6:  {4},
	7:  {3, 5},
	8:  {2},
	9:  {1},
	13: {3},
	14: {4},
	15: {3, 5},
	16: {2, 4, 6},
	17: {1},
	31: {3},
	32: {4},
	33: {3, 5},
	34: {2, 4, 6},
	35: {1},
	49: {3},
	50: {4},
	51: {3, 5},
	52: {2, 4, 6},
	53: {1},
}

// pBlockRows groups groups 13–17 per period; a charged atom takes the valences of
// its isoelectronic neighbour in the same row (N+ like C, O- like F).
var pBlockRows = [][]int{
	{5, 6, 7, 8, 9},
	{13, 14, 15, 16, 17},
	{31, 32, 33, 34, 35},
	{49, 50, 51, 52, 53},
}

// Symbol returns the element symbol for atomic number z ("*" for 0, "?" if unknown).
func Symbol(z int) string {
	if z < 0 || z >= len(symbols) {
		return "?"
	}

	return symbols[z]
}

// AtomicNumber resolves an element symbol (case-sensitive, e.g. "Cl").
func AtomicNumber(sym string) (int, error) {
	for z, s := range symbols {
		if s == sym {
			return z, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownElement, sym)
}

// IsHetero reports whether z is neither carbon, hydrogen nor a wildcard.
func IsHetero(z int) bool { return z != Carbon && z != Hydrogen && z != 0 }

// Valences returns the allowed valences of an atom with atomic number z and
// formal charge q, or nil when the element takes no implicit hydrogens.
func Valences(z, q int) []int {
	if q == 0 {
		return valences[z]
	}
	for _, row := range pBlockRows {
		for i, el := range row {
			if el != z {
				continue
			}
			j := i - q
			if j < 0 || j >= len(row) {
				return nil
			}

			return valences[row[j]]
		}
	}
	if z == Hydrogen && q != 0 {
		return []int{0}
	}

	return nil
}
