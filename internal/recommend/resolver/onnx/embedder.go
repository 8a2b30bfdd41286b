// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package onnx provides a sentence-transformer name embedder backed by ONNX
// Runtime and a HuggingFace tokenizer.json.
//
// Token embeddings from the model's last hidden state are mean-pooled over
// the attention mask and L2-normalized, matching the pooling used by the
// sentence-transformers MiniLM family.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/tomtom215/gamescout/internal/recommend/resolver"
)

// Compile-time interface check.
var _ resolver.Embedder = (*Embedder)(nil)

// Config configures the ONNX embedder.
type Config struct {
	// SharedLibraryPath locates the onnxruntime shared library.
	SharedLibraryPath string `koanf:"shared_library_path"`

	// ModelPath is the ONNX model file.
	ModelPath string `koanf:"model_path"`

	// TokenizerPath is the HuggingFace tokenizer.json file.
	TokenizerPath string `koanf:"tokenizer_path"`

	// MaxSeqLen caps tokens per text, special tokens included.
	MaxSeqLen int `koanf:"max_seq_len"`

	// Dimensions is the hidden size of the model output.
	Dimensions int `koanf:"dimensions"`

	// OutputName is the model output holding token embeddings.
	OutputName string `koanf:"output_name"`

	// TokenTypeIDs feeds a token_type_ids input for BERT-style models.
	TokenTypeIDs bool `koanf:"token_type_ids"`
}

// DefaultConfig returns settings for all-MiniLM-L6-v2.
func DefaultConfig() Config {
	return Config{
		MaxSeqLen:    128,
		Dimensions:   384,
		OutputName:   "last_hidden_state",
		TokenTypeIDs: true,
	}
}

var (
	envMu    sync.Mutex
	envUsers int
)

// acquireEnvironment initializes the process-wide ONNX Runtime environment
// on first use.
func acquireEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envUsers == 0 && !ort.IsInitialized() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	envUsers++
	return nil
}

func releaseEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()
	envUsers--
	if envUsers == 0 && ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}

// Embedder runs a sentence-transformer model.
type Embedder struct {
	cfg     Config
	tok     *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	name    string

	mu     sync.Mutex
	closed bool
}

// New loads the tokenizer and model.
func New(cfg Config) (*Embedder, error) {
	if cfg.ModelPath == "" || cfg.TokenizerPath == "" {
		return nil, errors.New("onnx embedder requires model_path and tokenizer_path")
	}
	if cfg.MaxSeqLen < 2 {
		cfg.MaxSeqLen = DefaultConfig().MaxSeqLen
	}
	if cfg.Dimensions < 1 {
		cfg.Dimensions = DefaultConfig().Dimensions
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultConfig().OutputName
	}

	tok, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	if err := acquireEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	inputs := []string{"input_ids", "attention_mask"}
	if cfg.TokenTypeIDs {
		inputs = append(inputs, "token_type_ids")
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputs, []string{cfg.OutputName}, nil)
	if err != nil {
		_ = releaseEnvironment()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Embedder{
		cfg:     cfg,
		tok:     tok,
		session: session,
		name:    strings.TrimSuffix(filepath.Base(cfg.ModelPath), filepath.Ext(cfg.ModelPath)),
	}, nil
}

// Name returns the model file name without extension.
func (e *Embedder) Name() string { return e.name }

// Close releases the session and, for the last embedder, the runtime
// environment.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	err := e.session.Destroy()
	return errors.Join(err, releaseEnvironment())
}

// Embed returns one unit vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, errors.New("onnx embedder is closed")
	}

	batch, err := e.encode(texts)
	if err != nil {
		return nil, err
	}
	hidden, err := e.run(batch)
	if err != nil {
		return nil, err
	}
	return meanPool(hidden, batch.mask, len(texts), batch.seqLen, e.cfg.Dimensions), nil
}

type encodedBatch struct {
	ids, mask, types []int64
	seqLen           int
}

// encode tokenizes texts and right-pads them to the longest sequence.
func (e *Embedder) encode(texts []string) (*encodedBatch, error) {
	rows := make([][]int, len(texts))
	typeRows := make([][]int, len(texts))
	seqLen := 1
	for i, t := range texts {
		enc, err := e.tok.EncodeSingle(t, true)
		if err != nil {
			return nil, fmt.Errorf("tokenize %q: %w", t, err)
		}
		ids, types := truncate(enc.Ids, e.cfg.MaxSeqLen), truncate(enc.TypeIds, e.cfg.MaxSeqLen)
		rows[i], typeRows[i] = ids, types
		seqLen = max(seqLen, len(ids))
	}

	b := &encodedBatch{
		ids:    make([]int64, len(texts)*seqLen),
		mask:   make([]int64, len(texts)*seqLen),
		types:  make([]int64, len(texts)*seqLen),
		seqLen: seqLen,
	}
	for i, ids := range rows {
		for j, id := range ids {
			b.ids[i*seqLen+j] = int64(id)
			b.mask[i*seqLen+j] = 1
			if j < len(typeRows[i]) {
				b.types[i*seqLen+j] = int64(typeRows[i][j])
			}
		}
	}
	return b, nil
}

// truncate keeps at most n tokens, preserving the final special token.
func truncate(ids []int, n int) []int {
	if len(ids) <= n {
		return ids
	}
	out := make([]int, n)
	copy(out, ids[:n-1])
	out[n-1] = ids[len(ids)-1]
	return out
}

// run executes the model and returns the flattened
// [batch, seqLen, dimensions] hidden states.
func (e *Embedder) run(b *encodedBatch) ([]float32, error) {
	batch := int64(len(b.ids) / b.seqLen)
	shape := ort.NewShape(batch, int64(b.seqLen))

	var inputs []ort.Value
	defer func() {
		for _, v := range inputs {
			_ = v.Destroy()
		}
	}()
	for _, data := range [][]int64{b.ids, b.mask, b.types}[:2+boolInt(e.cfg.TokenTypeIDs)] {
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("create input tensor: %w", err)
		}
		inputs = append(inputs, t)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(batch, int64(b.seqLen), int64(e.cfg.Dimensions)))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer func() { _ = output.Destroy() }()

	if err := e.session.Run(inputs, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("run onnx model: %w", err)
	}
	data := output.GetData()
	hidden := make([]float32, len(data))
	copy(hidden, data)
	return hidden, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// meanPool averages token embeddings over the attention mask and
// L2-normalizes each result.
func meanPool(hidden []float32, mask []int64, batch, seqLen, dims int) [][]float32 {
	out := make([][]float32, batch)
	for i := 0; i < batch; i++ {
		sum := make([]float64, dims)
		var count float64
		for j := 0; j < seqLen; j++ {
			if mask[i*seqLen+j] == 0 {
				continue
			}
			count++
			base := (i*seqLen + j) * dims
			for d := 0; d < dims; d++ {
				sum[d] += float64(hidden[base+d])
			}
		}
		vec := make([]float32, dims)
		var norm float64
		for d := range sum {
			if count > 0 {
				sum[d] /= count
			}
			norm += sum[d] * sum[d]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for d := range vec {
				vec[d] = float32(sum[d] / norm)
			}
		}
		out[i] = vec
	}
	return out
}
