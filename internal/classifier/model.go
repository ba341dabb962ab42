// Package classifier scores feature vectors with a gradient-boosted tree
// ensemble exported from XGBoost as a JSON dump.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Label is the predicted class.
type Label int

const (
	Benign   Label = 0
	Phishing Label = 1
)

func (l Label) String() string {
	switch l {
	case Benign:
		return "benign"
	case Phishing:
		return "phishing"
	default:
		return "label(" + strconv.Itoa(int(l)) + ")"
	}
}

const (
	objectiveLogistic = "binary:logistic"
	objectiveLogitRaw = "binary:logitraw"
)

var (
	errNoTrees          = errors.New("model has no trees")
	errUnknownObjective = errors.New("unsupported objective")
	errBadBaseScore     = errors.New("base_score must be in (0, 1) for binary:logistic")
)

// node mirrors one entry of XGBoost's dump_model(dump_format="json") output.
type node struct {
	NodeID         int      `json:"nodeid"`
	Split          string   `json:"split"`
	SplitCondition float64  `json:"split_condition"`
	Yes            int      `json:"yes"`
	No             int      `json:"no"`
	Missing        int      `json:"missing"`
	Leaf           *float64 `json:"leaf"`
	Children       []node   `json:"children"`
}

type document struct {
	Objective    string   `json:"objective"`
	BaseScore    *float64 `json:"base_score"`
	FeatureNames []string `json:"feature_names"`
	Trees        []node   `json:"trees"`
}

// flatNode is a node after loading: child references resolved to slice
// offsets and split names resolved to column indices.
type flatNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	yes, no   int
	missing   int
}

type tree []flatNode

// Model is an immutable tree ensemble. It is safe for concurrent use.
type Model struct {
	objective string
	base      float64
	width     int
	trees     []tree
}

// Load reads a model from a JSON file.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// Decode parses and validates a model. width is taken from feature_names when
// present; otherwise it is one past the highest fN referenced by a split.
func Decode(r io.Reader) (*Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(doc.Trees) == 0 {
		return nil, errNoTrees
	}

	objective := doc.Objective
	if objective == "" {
		objective = objectiveLogistic
	}

	m := &Model{objective: objective}
	switch objective {
	case objectiveLogistic:
		base := 0.5
		if doc.BaseScore != nil {
			base = *doc.BaseScore
		}
		if base <= 0 || base >= 1 {
			return nil, errBadBaseScore
		}
		m.base = math.Log(base / (1 - base))
	case objectiveLogitRaw:
		if doc.BaseScore != nil {
			m.base = *doc.BaseScore
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownObjective, objective)
	}

	columns := make(map[string]int, len(doc.FeatureNames))
	for i, name := range doc.FeatureNames {
		columns[name] = i
	}

	for i, root := range doc.Trees {
		t, err := flatten(root, columns)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for _, n := range t {
			if !n.leaf {
				m.width = max(m.width, n.feature+1)
			}
		}
		m.trees = append(m.trees, t)
	}
	if len(doc.FeatureNames) > 0 {
		m.width = len(doc.FeatureNames)
	}

	return m, nil
}

// flatten turns the nested dump into a slice indexed by nodeid and checks that
// every branch points at a node that exists.
func flatten(root node, columns map[string]int) (tree, error) {
	byID := make(map[int]node)
	stack := []node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := byID[n.NodeID]; dup {
			return nil, fmt.Errorf("duplicate nodeid %d", n.NodeID)
		}
		byID[n.NodeID] = n
		stack = append(stack, n.Children...)
	}

	t := make(tree, len(byID))
	for id, n := range byID {
		if id < 0 || id >= len(t) {
			return nil, fmt.Errorf("nodeid %d out of range", id)
		}
		if n.Leaf != nil {
			t[id] = flatNode{leaf: true, value: *n.Leaf}
			continue
		}

		col, err := column(n.Split, columns)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		for _, ref := range []int{n.Yes, n.No, n.Missing} {
			if _, ok := byID[ref]; !ok || ref == id {
				return nil, fmt.Errorf("node %d: bad child reference %d", id, ref)
			}
		}
		t[id] = flatNode{
			feature:   col,
			threshold: n.SplitCondition,
			yes:       n.Yes,
			no:        n.No,
			missing:   n.Missing,
		}
	}

	if t[0].leaf && len(t) > 1 {
		return nil, errors.New("root is a leaf but tree has more nodes")
	}
	return t, nil
}

func column(split string, columns map[string]int) (int, error) {
	if i, ok := columns[split]; ok {
		return i, nil
	}
	if len(columns) == 0 {
		if idx, ok := strings.CutPrefix(split, "f"); ok {
			if i, err := strconv.Atoi(idx); err == nil && i >= 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// Width is the minimum number of columns Predict expects.
func (m *Model) Width() int { return m.width }

// Margin returns the raw ensemble score for row.
func (m *Model) Margin(row []float64) (float64, error) {
	if len(row) < m.width {
		return 0, fmt.Errorf("row has %d columns, model expects %d", len(row), m.width)
	}

	sum := m.base
	for _, t := range m.trees {
		sum += t.eval(row)
	}
	return sum, nil
}

// Predict classifies one row.
func (m *Model) Predict(row []float64) (Label, error) {
	margin, err := m.Margin(row)
	if err != nil {
		return 0, err
	}

	if m.objective == objectiveLogistic {
		if sigmoid(margin) > 0.5 {
			return Phishing, nil
		}
		return Benign, nil
	}
	if margin > 0 {
		return Phishing, nil
	}
	return Benign, nil
}

func (t tree) eval(row []float64) float64 {
	i := 0
	// References are validated at load but may still form a cycle.
	for range len(t) {
		n := t[i]
		if n.leaf {
			return n.value
		}
		x := row[n.feature]
		switch {
		case math.IsNaN(x):
			i = n.missing
		case x < n.threshold:
			i = n.yes
		default:
			i = n.no
		}
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
