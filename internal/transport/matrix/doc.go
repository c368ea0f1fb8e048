// Package matrix is the Matrix transport built on mautrix. It only carries
// free-text messages; structured interactions do not exist on Matrix.
package matrix
