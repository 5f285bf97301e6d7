// Package pricing holds the pure pricing computations of the sales flow:
// unit resolution, promotion evaluation and invoice totals. Nothing in this
// package touches persistence; callers load the reference data and pass it in.
package pricing
