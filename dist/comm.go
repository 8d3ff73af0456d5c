// SPDX-License-Identifier: MIT

// Package dist - collective communicator contract.
//
// Purpose:
//   - Describe the synchronous collective operations the sketch appliers need.
//   - Keep payloads as plain bytes/float slices so a network transport can
//     implement the same interface as the in-process world in local.go.
//
// Semantics:
//   - Every collective blocks until all members of the communicator call it.
//   - Members must issue collectives in the same order (SPMD).
//   - There is no cancellation; Abort releases every blocked member with
//     ErrCommunication.

package dist

//go:generate mockgen -destination=distmock/mock_comm.go -package=distmock github.com/katalvlaran/lvsketch/dist Comm

// Comm is a communicator over a fixed group of processes.
type Comm interface {
	// Rank returns this process's rank in [0, Size()).
	Rank() int

	// Size returns the number of processes in the group.
	Size() int

	// Barrier blocks until every member has called Barrier.
	Barrier() error

	// AllReduceSum replaces buf with the element-wise sum of every member's buf.
	// All members must pass slices of the same length. Contributions are summed
	// in rank order, so every member receives bit-identical results.
	AllReduceSum(buf []float64) error

	// AllGather returns every member's payload, indexed by rank.
	AllGather(payload []byte) ([][]byte, error)

	// AllToAll sends send[r] to rank r and returns recv where recv[r] is the
	// payload rank r addressed to this process. len(send) must equal Size().
	AllToAll(send [][]byte) ([][]byte, error)

	// Split partitions the group by color (>= 0); members sharing a color form a
	// new communicator ordered by (key, parent rank).
	Split(color, key int) (Comm, error)

	// Abort fails the current and every future collective on this communicator
	// and on every communicator derived from the same world.
	Abort(err error)
}
