package fractal

import "fmt"

// Chunk is a contiguous range of the flattened pixel index space.
type Chunk struct {
	Start  int
	Length int
}

// End is one past the last index of the chunk.
func (c Chunk) End() int {
	return c.Start + c.Length
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d,%d)", c.Start, c.End())
}

// Partition splits [0, total) into k contiguous chunks of total/k indices,
// the last chunk also taking the remainder. k is clamped to total so no
// chunk is empty.
func Partition(total, k int) ([]Chunk, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: nothing to partition (%d pixels)", ErrInvalidSpec, total)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: chunk count %d must be at least 1", ErrInvalidSpec, k)
	}
	k = min(k, total)

	size := total / k
	chunks := make([]Chunk, k)
	for i := range k - 1 {
		chunks[i] = Chunk{Start: i * size, Length: size}
	}
	last := (k - 1) * size
	chunks[k-1] = Chunk{Start: last, Length: total - last}
	return chunks, nil
}
