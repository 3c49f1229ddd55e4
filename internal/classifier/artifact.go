// internal/classifier/artifact.go
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/unclebandit/tourism-predictor/internal/encoder"
)

// ArtifactFormat is the only serialization this gateway understands.
const ArtifactFormat = "tourism-tree-ensemble/v1"

// Node is one vertex of a decision tree. Splits send a row left when the
// numeric value is <= Threshold, or, for categorical splits, when the text
// value is one of Categories.
type Node struct {
	Feature    string   `json:"feature,omitempty"`
	Threshold  float64  `json:"threshold,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Left       int      `json:"left,omitempty"`
	Right      int      `json:"right,omitempty"`
	Leaf       bool     `json:"leaf,omitempty"`
	Value      float64  `json:"value,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is a trained additive tree ensemble. Once decoded it is read-only
// and safe for concurrent use.
type Artifact struct {
	Format        string   `json:"format"`
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	FeatureNames  []string `json:"feature_names"`
	BaseScore     float64  `json:"base_score"`
	Threshold     *float64 `json:"threshold,omitempty"`
	PositiveClass *int     `json:"positive_class,omitempty"`
	Trees         []Tree   `json:"trees"`

	categories [][]map[string]struct{}
}

var (
	errWrongFormat = errors.New("unsupported artifact format")
	errWrongType   = errors.New("split type does not match column type")
)

// DecodeArtifact parses a serialized artifact. Call Verify before use.
func DecodeArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Verify checks the artifact is complete and every tree terminates.
func (a *Artifact) Verify() error {
	if a.Format != ArtifactFormat {
		return fmt.Errorf("%w: %q", errWrongFormat, a.Format)
	}
	if len(a.FeatureNames) == 0 {
		return errors.New("artifact declares no feature names")
	}
	if len(a.Trees) == 0 {
		return errors.New("artifact has no trees")
	}
	if a.Threshold != nil && (*a.Threshold <= 0 || *a.Threshold >= 1) {
		return fmt.Errorf("threshold %v outside (0,1)", *a.Threshold)
	}
	if a.PositiveClass != nil && *a.PositiveClass != 0 && *a.PositiveClass != 1 {
		return fmt.Errorf("positive class %d is not 0 or 1", *a.PositiveClass)
	}

	text := make(map[string]struct{})
	for _, c := range encoder.PassthroughColumns() {
		text[c] = struct{}{}
	}

	features := make(map[string]struct{}, len(a.FeatureNames))
	for _, f := range a.FeatureNames {
		if _, dup := features[f]; dup {
			return fmt.Errorf("duplicate feature name %q", f)
		}
		features[f] = struct{}{}
	}

	a.categories = make([][]map[string]struct{}, len(a.Trees))
	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		a.categories[ti] = make([]map[string]struct{}, len(t.Nodes))
		for ni, n := range t.Nodes {
			if n.Leaf {
				continue
			}
			if _, ok := features[n.Feature]; !ok {
				return fmt.Errorf("tree %d node %d splits on unknown feature %q", ti, ni, n.Feature)
			}
			// Children must come after their parent, so walks always end.
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d has invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
			if len(n.Categories) > 0 {
				set := make(map[string]struct{}, len(n.Categories))
				for _, c := range n.Categories {
					set[c] = struct{}{}
				}
				a.categories[ti][ni] = set
			} else if _, isText := text[n.Feature]; isText {
				return fmt.Errorf("%w: tree %d node %d has a numeric split on text column %q", errWrongType, ti, ni, n.Feature)
			}
		}
	}
	return nil
}

// Schema is the input layout the artifact was trained on.
func (a *Artifact) Schema() encoder.Schema {
	return encoder.NewSchema(a.FeatureNames)
}

func (a *Artifact) threshold() float64 {
	if a.Threshold == nil {
		return 0.5
	}
	return *a.Threshold
}

func (a *Artifact) positiveClass() int {
	if a.PositiveClass == nil {
		return 1
	}
	return *a.PositiveClass
}

// Margin sums the base score and every tree's leaf for the row. The vector
// must already match the artifact's feature layout.
func (a *Artifact) Margin(vec encoder.FeatureVector) (float64, error) {
	margin := a.BaseScore
	for ti, t := range a.Trees {
		i := 0
		for !t.Nodes[i].Leaf {
			n := t.Nodes[i]
			v, _ := vec.Get(n.Feature)
			left, err := a.goesLeft(ti, i, n, v)
			if err != nil {
				return 0, err
			}
			if left {
				i = n.Left
			} else {
				i = n.Right
			}
		}
		margin += t.Nodes[i].Value
	}
	return margin, nil
}

func (a *Artifact) goesLeft(ti, ni int, n Node, v encoder.Value) (bool, error) {
	if set := a.categories[ti][ni]; set != nil {
		_, ok := set[v.String()]
		return ok, nil
	}
	if v.IsText {
		return false, &typeMismatch{column: n.Feature}
	}
	return v.Number <= n.Threshold, nil
}

// Probability is the logistic of the margin.
func Probability(margin float64) float64 {
	return 1 / (1 + math.Exp(-margin))
}

type typeMismatch struct {
	column string
}

func (e *typeMismatch) Error() string {
	return fmt.Sprintf("column %s: numeric split on text value", e.column)
}
