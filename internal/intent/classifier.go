package intent

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Classifier runs a fine-tuned BERT intent head exported to ONNX. The model
// and labels load lazily on first Detect so the server can boot without the
// ONNX runtime when intent routing is disabled.
type Classifier struct {
	mu sync.Mutex

	modelPath  string
	vocabPath  string
	labelsPath string
	maxTokens  int
	libPath    string

	session   *ort.AdvancedSession
	idsTensor *ort.Tensor[int64]
	inputs    []*ort.Tensor[int64]
	output    *ort.Tensor[float32]
	tokenizer *Tokenizer
	labels    []Intent
	inited    bool
}

func NewClassifier(modelPath, vocabPath, labelsPath, onnxLibPath string, maxTokens int) *Classifier {
	if maxTokens <= 0 {
		maxTokens = 64
	}
	return &Classifier{
		modelPath:  modelPath,
		vocabPath:  vocabPath,
		labelsPath: labelsPath,
		maxTokens:  maxTokens,
		libPath:    onnxLibPath,
	}
}

// initOnce loads the ONNX shared library, tokenizer, labels, and session.
func (c *Classifier) initOnce() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inited {
		return nil
	}

	if c.libPath != "" {
		ort.SetSharedLibraryPath(c.libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx init environment: %w", err)
	}

	tokenizer, err := NewTokenizer(c.vocabPath, c.maxTokens)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	c.tokenizer = tokenizer

	labels, err := loadLabels(c.labelsPath)
	if err != nil {
		return fmt.Errorf("load labels: %w", err)
	}
	c.labels = labels

	inputs, outputs, err := ort.GetInputOutputInfo(c.modelPath)
	if err != nil {
		return fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("onnx model has no inputs or outputs")
	}

	// BERT exports declare dynamic batch/sequence dims; allocate concrete
	// [1, maxTokens] tensors instead of trusting the declared shapes.
	shape := ort.NewShape(1, int64(c.maxTokens))
	inputValues := make([]ort.Value, 0, len(inputs))
	inputNames := make([]string, 0, len(inputs))
	for _, in := range inputs {
		tensor, err := ort.NewEmptyTensor[int64](shape)
		if err != nil {
			c.destroyTensors()
			return fmt.Errorf("onnx new input tensor %s: %w", in.Name, err)
		}
		c.inputs = append(c.inputs, tensor)
		inputValues = append(inputValues, tensor)
		inputNames = append(inputNames, in.Name)
		if in.Name == "input_ids" {
			c.idsTensor = tensor
		}
	}
	if c.idsTensor == nil {
		c.idsTensor = c.inputs[0]
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		c.destroyTensors()
		return fmt.Errorf("onnx new output tensor: %w", err)
	}
	c.output = outputTensor

	session, err := ort.NewAdvancedSession(c.modelPath, inputNames, []string{outputs[0].Name},
		inputValues, []ort.Value{c.output}, nil)
	if err != nil {
		c.destroyTensors()
		return fmt.Errorf("onnx new session: %w", err)
	}
	c.session = session
	c.inited = true
	return nil
}

func (c *Classifier) destroyTensors() {
	for _, t := range c.inputs {
		t.Destroy()
	}
	c.inputs = nil
	c.idsTensor = nil
	if c.output != nil {
		c.output.Destroy()
		c.output = nil
	}
}

func loadLabels(path string) ([]Intent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []Intent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			labels = append(labels, Intent(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file is empty")
	}
	return labels, nil
}

// Detect tokenizes the text, runs the model, and returns the argmax label.
func (c *Classifier) Detect(ctx context.Context, text string) (Intent, error) {
	if err := c.initOnce(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ids, mask := c.tokenizer.Encode(text)

	c.mu.Lock()
	for _, tensor := range c.inputs {
		data := tensor.GetData()
		src := mask
		if tensor == c.idsTensor {
			src = ids
		}
		if tensor != c.idsTensor && len(c.inputs) > 2 && tensor == c.inputs[len(c.inputs)-1] {
			// token_type_ids: single segment, all zeros
			src = make([]int64, len(ids))
		}
		copy(data, src)
	}
	err := c.session.Run()
	var logits []float32
	if err == nil {
		logits = append([]float32(nil), c.output.GetData()...)
	}
	c.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("onnx run: %w", err)
	}

	best := 0
	for i := 1; i < len(logits) && i < len(c.labels); i++ {
		if logits[i] > logits[best] {
			best = i
		}
	}
	if best >= len(c.labels) {
		return "", fmt.Errorf("logit index %d out of label range", best)
	}
	return c.labels[best], nil
}
