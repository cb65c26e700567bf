// Package molscaf decomposes molecules into hierarchies of nested ring scaffolds.
//
// A molecule is reduced to its scaffold, then terminal rings are stripped one at
// a time until a single ring remains. The ring to remove next is picked by the
// thirteen Schuffenhauer rules, or every removable ring is tried in turn. The
// results are a flat fragment list, a single-parent tree, or a multi-parent
// network that deduplicates fragments reached along different paths and across
// many molecules.
//
// Subpackages:
//
//	molecule/    - Graph, Atom and Bond with stable atom IDs, cloning, traversal,
//	               atom typing and implicit hydrogens
//	smiles/      - SMILES parser with kekulisation and a canonical writer
//	rings/       - all cycles, relevant cycles, minimum cycle basis, ring systems
//	aromaticity/ - Hückel perception under Daylight, CDK and pi-bond models
//	scaffold/    - Generator: scaffold modes, ring removal, rule cascade,
//	               fragments, trees, networks and corpus batches
//	hierarchy/   - Tree and Network collections with merges and matrix export
//	metrics/     - Prometheus collectors for batch runs
//	store/       - SQLite persistence of trees and networks
//	config/      - HCL file and MOLSCAF_* environment configuration
//	cmd/molscaf  - command-line front end
//
// Quick start:
//
//	gen, _ := scaffold.New()
//	frags, _ := gen.SchuffenhauerFragments(smiles.MustParse("CCc1ccc(cc1)-c1ccccc1"))
//	for _, f := range frags {
//		s, _ := smiles.Write(f)
//		fmt.Println(s)
//	}
//
// Every operation clones its input. Graphs carry no locks; a graph belongs to
// exactly one caller at a time.
package molscaf
