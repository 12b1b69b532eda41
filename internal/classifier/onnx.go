package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"classifyapi/internal/config"
	"classifyapi/internal/model"
)

// Metadata describes the exported model: tensor shapes, the label set and
// the square input resolution the network was trained on.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// ImageNet channel statistics used to normalize pixel values before
// inference.
var (
	normMean = [3]float32{0.485, 0.456, 0.406}
	normStd  = [3]float32{0.229, 0.224, 0.225}
)

// ONNX runs inference through a single onnxruntime session created at
// startup. The session owns fixed input/output tensors, so concurrent
// Classify calls are serialized by an internal mutex.
type ONNX struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewONNX initializes the onnxruntime environment, loads model metadata and
// creates the inference session. Call Close when the process shuts down.
func NewONNX(cfg config.ModelConfig) (*ONNX, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize ONNX environment: %w", err)
	}

	meta, err := loadMetadata(cfg.MetadataPath)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.Path,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("create ONNX session: %w", err)
	}

	return &ONNX{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func loadMetadata(path string) (Metadata, error) {
	var meta Metadata

	raw, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata: %w", err)
	}
	if len(meta.Classes) == 0 {
		return meta, fmt.Errorf("metadata %s lists no classes", path)
	}
	if meta.ImageSize <= 0 {
		return meta, fmt.Errorf("metadata %s has invalid image_size %d", path, meta.ImageSize)
	}
	return meta, nil
}

// Classify decodes the staged image, runs inference and returns the top-1
// label with its softmax probability in percent.
func (o *ONNX) Classify(ctx context.Context, imagePath string) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	input := o.preprocess(img)

	o.mu.Lock()
	copy(o.inputTensor.GetData(), input)
	runErr := o.session.Run()
	var logits []float32
	if runErr == nil {
		out := o.outputTensor.GetData()
		logits = make([]float32, len(out))
		copy(logits, out)
	}
	o.mu.Unlock()

	if runErr != nil {
		return nil, fmt.Errorf("inference: %w", runErr)
	}

	probs := softmax(logits)
	idx := argmax(probs)
	if idx >= len(o.meta.Classes) {
		return nil, fmt.Errorf("predicted index %d outside class list", idx)
	}

	return &model.Prediction{
		Category:    o.meta.Classes[idx],
		Probability: float64(probs[idx]) * 100,
	}, nil
}

// preprocess resizes the image to the model's square input resolution and
// lays it out channel-first with ImageNet normalization.
func (o *ONNX) preprocess(img image.Image) []float32 {
	size := uint(o.meta.ImageSize)
	resized := resize.Resize(size, size, img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	data := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			i := y*width + x
			data[i] = (float32(r)/65535.0 - normMean[0]) / normStd[0]
			data[plane+i] = (float32(g)/65535.0 - normMean[1]) / normStd[1]
			data[2*plane+i] = (float32(b)/65535.0 - normMean[2]) / normStd[2]
		}
	}

	return data
}

func softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	probs := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - max))
		probs[i] = float32(e)
		sum += e
	}
	for i := range probs {
		probs[i] = float32(float64(probs[i]) / sum)
	}
	return probs
}

func argmax(vals []float32) int {
	idx := 0
	for i, v := range vals {
		if v > vals[idx] {
			idx = i
		}
	}
	return idx
}

// Close destroys the tensors, session and onnxruntime environment.
func (o *ONNX) Close() {
	if o.inputTensor != nil {
		o.inputTensor.Destroy()
	}
	if o.outputTensor != nil {
		o.outputTensor.Destroy()
	}
	if o.session != nil {
		o.session.Destroy()
	}
	ort.DestroyEnvironment()
}
