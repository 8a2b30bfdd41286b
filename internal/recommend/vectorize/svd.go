// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package vectorize

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"
)

// dense is a column-major matrix: dense[j] is column j.
type dense [][]float64

func newDense(rows, cols int) dense {
	d := make(dense, cols)
	for j := range d {
		d[j] = make([]float64, rows)
	}
	return d
}

// gaussian returns a rows x cols matrix of standard normal samples drawn
// from a generator seeded with seed.
func gaussian(rows, cols int, seed int64) dense {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)) //nolint:gosec // reproducible projections
	d := newDense(rows, cols)
	for j := range d {
		for i := range d[j] {
			d[j][i] = rng.NormFloat64()
		}
	}
	return d
}

// mul computes m x d where d has m.cols rows. Row blocks of m are
// processed in parallel.
func mul(ctx context.Context, m *sparse, d dense, workers int) (dense, error) {
	out := newDense(m.rows, len(d))
	if workers < 1 {
		workers = 1
	}
	chunk := (m.rows + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < m.rows; start += chunk {
		lo, hi := start, min(start+chunk, m.rows)
		g.Go(func() error {
			for r := lo; r < hi; r++ {
				if (r-lo)%256 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				cols, vals := m.row(r)
				for j := range d {
					src := d[j]
					var sum float64
					for i, c := range cols {
						sum += vals[i] * src[c]
					}
					out[j][r] = sum
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// orthonormalize replaces the columns of d with an orthonormal basis of
// their span using modified Gram-Schmidt with one re-orthogonalization
// pass. Columns that are linearly dependent become zero.
func orthonormalize(d dense) {
	const eps = 1e-10
	for j := range d {
		v := d[j]
		for pass := 0; pass < 2; pass++ {
			for i := 0; i < j; i++ {
				q := d[i]
				p := dot(q, v)
				for k := range v {
					v[k] -= p * q[k]
				}
			}
		}
		n := math.Sqrt(dot(v, v))
		if n < eps {
			for k := range v {
				v[k] = 0
			}
			continue
		}
		for k := range v {
			v[k] /= n
		}
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// symmetricEigen diagonalizes the symmetric matrix a with cyclic Jacobi
// rotations. It returns the eigenvalues and the eigenvectors as columns of
// vecs (vecs[i][j] is component i of eigenvector j). a is overwritten.
func symmetricEigen(a [][]float64) (vals []float64, vecs [][]float64) {
	n := len(a)
	vecs = make([][]float64, n)
	for i := range vecs {
		vecs[i] = make([]float64, n)
		vecs[i][i] = 1
	}

	for sweep := 0; sweep < 100; sweep++ {
		var off, total float64
		for p := 0; p < n; p++ {
			for q := 0; q < n; q++ {
				total += a[p][q] * a[p][q]
				if p != q {
					off += a[p][q] * a[p][q]
				}
			}
		}
		if off <= 1e-24*total || off == 0 {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := a[p][q]
				if math.Abs(apq) < 1e-300 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * apq)
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < n; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < n; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
				for k := 0; k < n; k++ {
					vkp, vkq := vecs[k][p], vecs[k][q]
					vecs[k][p] = c*vkp - s*vkq
					vecs[k][q] = s*vkp + c*vkq
				}
			}
		}
	}

	vals = make([]float64, n)
	for i := range vals {
		vals[i] = a[i][i]
	}
	return vals, vecs
}

// randomizedSVD returns the rank-k projection U*Sigma of m, computed with a
// seeded randomized range finder followed by an exact decomposition of the
// small projected matrix. Each component's sign is fixed so that its
// largest-magnitude entry is positive.
func randomizedSVD(ctx context.Context, m *sparse, k, oversample, powerIters, workers int, seed int64) (dense, error) {
	width := min(k+max(oversample, 0), m.rows, m.cols)
	t := m.transpose()

	// Range finder: Q spans the dominant column space of m.
	q, err := mul(ctx, m, gaussian(m.cols, width, seed), workers)
	if err != nil {
		return nil, err
	}
	orthonormalize(q)
	for i := 0; i < powerIters; i++ {
		z, err := mul(ctx, t, q, workers)
		if err != nil {
			return nil, err
		}
		orthonormalize(z)
		if q, err = mul(ctx, m, z, workers); err != nil {
			return nil, err
		}
		orthonormalize(q)
	}

	// Bt = m^T Q, so B = Q^T m and B B^T = Bt^T Bt.
	bt, err := mul(ctx, t, q, workers)
	if err != nil {
		return nil, err
	}
	gram := make([][]float64, width)
	for i := range gram {
		gram[i] = make([]float64, width)
	}
	for i := 0; i < width; i++ {
		for j := i; j < width; j++ {
			v := dot(bt[i], bt[j])
			gram[i][j] = v
			gram[j][i] = v
		}
	}
	vals, vecs := symmetricEigen(gram)

	order := make([]int, width)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return vals[order[i]] > vals[order[j]] })
	if k > width {
		k = width
	}

	// X = Q * Ub * Sigma for the top k components.
	x := newDense(m.rows, k)
	for c := 0; c < k; c++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := order[c]
		sigma := math.Sqrt(math.Max(vals[e], 0))
		col := x[c]
		for i := 0; i < width; i++ {
			w := vecs[i][e] * sigma
			if w == 0 {
				continue
			}
			qi := q[i]
			for r := range col {
				col[r] += w * qi[r]
			}
		}
		flipSign(col)
	}
	return x, nil
}

// flipSign negates col when its largest-magnitude entry is negative.
func flipSign(col []float64) {
	best, at := 0.0, -1
	for i, v := range col {
		if a := math.Abs(v); a > best {
			best, at = a, i
		}
	}
	if at >= 0 && col[at] < 0 {
		for i := range col {
			col[i] = -col[i]
		}
	}
}
