package overlay

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Emitter writes the Kometa overlay file that targets qualifying shows by
// their tvdb ids.
type Emitter struct {
	key    string
	text   string
	logger *slog.Logger
}

// NewEmitter builds an emitter for a fixed overlay key and banner text.
func NewEmitter(key, text string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		key:    key,
		text:   text,
		logger: logger.With(slog.String("component", "overlay")),
	}
}

// Emit writes the overlay document to outputPath, creating parent
// directories as needed. An empty id set still produces a document with an
// explicitly empty tvdb_show list so that a previously applied overlay is
// retracted instead of lingering.
func (e *Emitter) Emit(outputPath string, tvdbIDs []int64, style map[string]any) error {
	ids := append([]int64(nil), tvdbIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	doc, err := e.buildDocument(ids, style)
	if err != nil {
		return fmt.Errorf("build overlay document: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Generated by showstub at %s\n", time.Now().Format(time.RFC3339))
	buf.WriteString("# Do not edit manually; this file is overwritten every run.\n\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode overlay document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode overlay document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write overlay file: %w", err)
	}

	e.logger.Info("wrote overlay file",
		slog.String("path", outputPath),
		slog.Int("shows", len(ids)))
	return nil
}

// buildDocument assembles the node tree by hand so the overlay block keeps a
// stable attribute order, name first, instead of the encoder's map sorting.
func (e *Emitter) buildDocument(ids []int64, style map[string]any) (*yaml.Node, error) {
	overlayNode := &yaml.Node{Kind: yaml.MappingNode}
	if err := appendEntry(overlayNode, "name", fmt.Sprintf("text(%s)", e.text)); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(style))
	for key := range style {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := appendEntry(overlayNode, key, style[key]); err != nil {
			return nil, err
		}
	}

	idsNode := &yaml.Node{}
	if err := idsNode.Encode(ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		idsNode.Kind = yaml.SequenceNode
		idsNode.Style = yaml.FlowStyle
	}

	bodyNode := &yaml.Node{Kind: yaml.MappingNode}
	bodyNode.Content = append(bodyNode.Content,
		scalarKey("overlay"), overlayNode,
		scalarKey("tvdb_show"), idsNode)

	entryNode := &yaml.Node{Kind: yaml.MappingNode}
	entryNode.Content = append(entryNode.Content, scalarKey(e.key), bodyNode)

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalarKey("overlays"), entryNode)
	return root, nil
}

func appendEntry(mapping *yaml.Node, key string, value any) error {
	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("encode attribute %s: %w", key, err)
	}
	mapping.Content = append(mapping.Content, scalarKey(key), valueNode)
	return nil
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key}
}
