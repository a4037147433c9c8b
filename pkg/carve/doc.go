// Package carve implements content-aware image resizing by seam carving.
//
// A seam is a connected top-to-bottom path through a pixel grid, one pixel
// per row, where neighbouring pixels differ by at most one column. Resizing
// repeatedly finds the seam with the lowest total energy and removes or
// duplicates it until the grid reaches the requested width. Heights are
// handled by transposing the grid, carving its width, and transposing back.
//
// # Pipeline
//
// Every single-seam step recomputes everything from the current grid:
//
//  1. [Energy] computes the dual-gradient energy of every pixel.
//  2. [CumulativeCost] builds the minimum-path cost matrix top to bottom.
//  3. [FindSeam] walks the cost matrix bottom to top and extracts a seam.
//  4. [ApplySeam] produces a new grid one column narrower or wider.
//
// [Resize] drives the loop for both axes. Nothing is cached between steps:
// inserting or removing a seam changes the energy of every pixel next to it.
//
// # Tie-breaking
//
// The seam's bottom pixel is the left-most minimum of the last cost row.
// Walking upward, the straight-up parent is preferred; the up-left parent
// replaces it only when strictly cheaper, and the up-right parent replaces
// whichever of the two is currently chosen only when strictly cheaper.
//
// # Column shift
//
// [ApplySeam] copies columns up to and including the seam column unchanged
// and shifts the rest. When shrinking this drops the column immediately
// after the seam, not the seam column itself. When growing the seam column
// is duplicated. Output of existing tools depends on this exact indexing, so
// it is kept even though textbook seam carving removes the seam's own pixels.
//
// # Preconditions
//
// The energy operator samples a 2-wide window clamped inside the grid, so
// grids narrower or shorter than [MinSide] cannot be carved. [Validate]
// reports targets that would require carving such a grid.
package carve
