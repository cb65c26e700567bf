// Command molscaf decomposes molecules given as SMILES into scaffold
// hierarchies.
//
//	molscaf scaffold  'CCc1ccc(cc1)-c1ccccc1'
//	molscaf fragments --input molecules.smi
//	molscaf tree      --db scaffolds.db --name run1 --input molecules.smi
//	molscaf network   --mode murcko --metrics-addr :9090 --input -
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
