// Package dist provides the distributed-memory collaborators of a sketch:
// a collective communicator contract, an in-process implementation of it, a
// 2-D process grid, and distributed dense and sparse matrices.
//
// Dense matrices are element-cyclic in one of six distributions
// ([MC,MR], [VC,STAR], [VR,STAR], [STAR,VC], [STAR,VR], [STAR,STAR]);
// sparse matrices are block-distributed over the grid. Every process of a
// communicator runs the same sequence of collectives (SPMD).
//
// The in-process world lets a whole grid run as goroutines:
//
//	err := dist.RunGrid(2, 3, func(g *dist.Grid) error {
//		a, err := dist.NewDense(g, dist.VCStar, 100, 10)
//		if err != nil {
//			return err
//		}
//		a.FillFunc(func(i, j int) float64 { return float64(i + j) })
//		_, err = a.Gather()
//		return err
//	})
package dist
