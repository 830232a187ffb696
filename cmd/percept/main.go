// Command percept builds a Vision Transformer from flags, runs a
// forward pass over random images, and prints the model summary, the
// predicted classes, and timing. Useful for sizing models and sanity
// checking inference throughput.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/percept-ml/percept/backend/cpu"
	"github.com/percept-ml/percept/tensor"
	"github.com/percept-ml/percept/vit"
)

func main() {
	imgSize := flag.Int("img", 224, "image size in pixels")
	patchSize := flag.Int("patch", 16, "patch size in pixels")
	dModel := flag.Int("dmodel", 256, "embedding width")
	numHeads := flag.Int("heads", 8, "attention heads")
	numLayers := flag.Int("layers", 6, "encoder layers")
	dFF := flag.Int("dff", 1024, "feed-forward width")
	numClasses := flag.Int("classes", 2, "output classes")
	batch := flag.Int("batch", 1, "batch size")
	flag.Parse()

	cfg := vit.Config{
		ImgSize:    *imgSize,
		PatchSize:  *patchSize,
		DModel:     *dModel,
		NumHeads:   *numHeads,
		NumLayers:  *numLayers,
		DFF:        *dFF,
		NumClasses: *numClasses,
	}
	if err := run(cfg, *batch); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg vit.Config, batch int) error {
	backend := cpu.New()
	model, err := vit.New(cfg, backend)
	if err != nil {
		return err
	}

	fmt.Printf("backend:    %s\n", backend.Name())
	fmt.Printf("patches:    %d (%dx%d of %dpx)\n",
		cfg.NumPatches(), cfg.ImgSize/cfg.PatchSize, cfg.ImgSize/cfg.PatchSize, cfg.PatchSize)
	fmt.Printf("patch dim:  %d\n", cfg.PatchDim())
	fmt.Printf("parameters: %d\n", model.NumParameters())

	images := tensor.Randn[float32](tensor.Shape{batch, vit.Channels, cfg.ImgSize, cfg.ImgSize}, backend)

	start := time.Now()
	logits, err := model.Forward(images)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	classes := make([]int32, batch)
	copy(classes, logits.Argmax(1).AsInt32())
	fmt.Printf("forward:    %v for batch %d\n", elapsed, batch)
	fmt.Printf("logits:     %v\n", logits.Shape())
	fmt.Printf("classes:    %v\n", classes)
	return nil
}
