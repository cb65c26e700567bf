package scaffold_test

import (
	"fmt"

	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/smiles"
)

// ExampleGenerator_SchuffenhauerFragments strips biphenyl down to benzene.
func ExampleGenerator_SchuffenhauerFragments() {
	gen, err := scaffold.New()
	if err != nil {
		fmt.Println(err)
		return
	}
	frags, err := gen.SchuffenhauerFragments(smiles.MustParse("CCc1ccc(cc1)-c1ccccc1"))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, f := range frags {
		fmt.Println(f.AtomCount())
	}
	// Output:
	// 12
	// 6
}

// ExampleGenerator_Scaffold shows the Murcko framework of an amide.
func ExampleGenerator_Scaffold() {
	gen, _ := scaffold.New(scaffold.WithMode(scaffold.ModeMurckoFramework))
	s, _ := gen.Scaffold(smiles.MustParse("CC(C)c1ccccc1C(=O)NC1CC1"))
	fmt.Println(s.AtomCount(), s.BondCount())
	// Output:
	// 11 12
}
