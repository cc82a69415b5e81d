package schemascore

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Embedder exposes the minimal surface required by the scoring engine.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
	ModelID() string
}

var ortInitOnce sync.Once
var ortInitErr error

func initRuntime(dllPath string) error {
	ortInitOnce.Do(func() {
		if dllPath != "" {
			ort.SetSharedLibraryPath(dllPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// OrtEmbedder runs a sentence-encoder ONNX model with caching. Vectors are
// mean-pooled over the token dimension and L2-normalized, so cosine
// similarity of two outputs lies in [-1, 1].
type OrtEmbedder struct {
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
	cfg     EmbedderConfig

	memCache map[string][]float32
	mu       sync.RWMutex
	runMu    sync.Mutex
}

// NewOrtEmbedder initializes the ONNX session and prepares cache directories.
func NewOrtEmbedder(cfg EmbedderConfig) (*OrtEmbedder, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("embedder model path is required")
	}
	if cfg.TokenizerPath == "" {
		return nil, errors.New("embedder tokenizer path is required")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = filepath.Base(cfg.ModelPath)
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 128
	}
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := initRuntime(cfg.OrtDLL); err != nil {
		return nil, fmt.Errorf("init onnxruntime: %w", err)
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"}, nil)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &OrtEmbedder{
		session:  session,
		tk:       tk,
		cfg:      cfg,
		memCache: make(map[string][]float32),
	}, nil
}

// Close releases ORT resources.
func (o *OrtEmbedder) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session != nil {
		o.session.Destroy()
		o.session = nil
	}
	o.memCache = nil
	return nil
}

// ModelID returns the identifier used for cache keys.
func (o *OrtEmbedder) ModelID() string {
	return o.cfg.ModelID
}

// EmbedText embeds a single string with caching.
func (o *OrtEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if o == nil || o.session == nil {
		return nil, errors.New("embedder is not initialized")
	}
	normalized := NormalizeText(text)
	key := o.cacheKey(normalized)
	if vec := o.getFromCache(key); vec != nil {
		return vec, nil
	}
	if vec, err := o.loadFromDisk(key); err == nil {
		o.storeInMemory(key, vec)
		return cloneVector(vec), nil
	}
	vec, err := o.encode(normalized)
	if err != nil {
		return nil, err
	}
	o.storeInMemory(key, vec)
	_ = o.saveToDisk(key, vec)
	return cloneVector(vec), nil
}

// EmbedTexts embeds a slice of strings sequentially.
func (o *OrtEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := o.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (o *OrtEmbedder) encode(text string) ([]float32, error) {
	en, err := o.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids := en.Ids
	mask := en.AttentionMask
	types := en.TypeIds
	if len(ids) > o.cfg.MaxSeqLen {
		ids = ids[:o.cfg.MaxSeqLen]
		mask = mask[:o.cfg.MaxSeqLen]
		types = types[:o.cfg.MaxSeqLen]
	}
	if len(ids) == 0 {
		return nil, errors.New("empty token sequence")
	}
	seqLen := len(ids)
	inputIDs := make([]int64, seqLen)
	attention := make([]int64, seqLen)
	typeIDs := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		inputIDs[i] = int64(ids[i])
		attention[i] = int64(mask[i])
		typeIDs[i] = int64(types[i])
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, attention)
	if err != nil {
		return nil, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("type tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := make([]ort.Value, 1)
	o.runMu.Lock()
	err = o.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs)
	o.runMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("unexpected model output type")
	}
	defer hidden.Destroy()

	dims := hidden.GetShape()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	return meanPool(hidden.GetData(), int(dims[1]), int(dims[2]), attention), nil
}

// meanPool averages token vectors weighted by the attention mask and
// L2-normalizes the result.
func meanPool(data []float32, seqLen, hiddenSize int, mask []int64) []float32 {
	vec := make([]float32, hiddenSize)
	var count float64
	for t := 0; t < seqLen && t < len(mask); t++ {
		if mask[t] == 0 {
			continue
		}
		count++
		base := t * hiddenSize
		for h := 0; h < hiddenSize; h++ {
			vec[h] += data[base+h]
		}
	}
	if count == 0 {
		return vec
	}
	var norm float64
	for h := range vec {
		vec[h] /= float32(count)
		norm += float64(vec[h]) * float64(vec[h])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for h := range vec {
			vec[h] *= inv
		}
	}
	return vec
}

func (o *OrtEmbedder) cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, o.cfg.ModelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func (o *OrtEmbedder) getFromCache(key string) []float32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if vec, ok := o.memCache[key]; ok {
		return cloneVector(vec)
	}
	return nil
}

func (o *OrtEmbedder) storeInMemory(key string, vec []float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.memCache != nil {
		o.memCache[key] = cloneVector(vec)
	}
}

func (o *OrtEmbedder) loadFromDisk(key string) ([]float32, error) {
	if o.cfg.CacheDir == "" {
		return nil, os.ErrNotExist
	}
	path := filepath.Join(o.cfg.CacheDir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("cache file too small: %s", path)
	}
	length := int(binary.LittleEndian.Uint32(data[:4]))
	data = data[4:]
	if len(data) != length*4 {
		return nil, fmt.Errorf("cache length mismatch: %s", path)
	}
	vec := make([]float32, length)
	for i := 0; i < length; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
	}
	return vec, nil
}

func (o *OrtEmbedder) saveToDisk(key string, vec []float32) error {
	if o.cfg.CacheDir == "" {
		return nil
	}
	path := filepath.Join(o.cfg.CacheDir, key+".bin")
	tmp := path + ".tmp"
	buf := make([]byte, 4+len(vec)*4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(vec)))
	off := 4
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
