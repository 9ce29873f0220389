// Package historylog renders a commit's ancestry as a Graphviz DOT
// graph for "vrz log".
//
// Grounded on original_source/verizon/other_utils.py (log_graphviz) for
// traversal and message-escaping semantics, and on
// rcowham-gitp4transfer's cmd/gitgraph/gitgraph.go for the
// github.com/emicklei/dot graph-building idiom (dot.NewGraph(dot.Directed),
// graph.Node(label), graph.Edge(from, to, label)) — one of the other
// example repos, wired in here because this is the one spec operation
// that benefits from a dedicated graph builder rather than hand-built
// DOT text.
package historylog

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// Graph walks the commit ancestry starting at sha, following every
// "parent" key, and returns a rendered DOT document. Each commit is
// visited at most once even under diamond histories.
func Graph(r *repo.Repo, sha string) (string, error) {
	g := dot.NewGraph(dot.Directed)
	nodes := make(map[string]dot.Node)
	seen := make(map[string]bool)

	var visit func(string) error
	visit = func(sha string) error {
		if seen[sha] {
			return nil
		}
		seen[sha] = true

		obj, err := objstore.ReadObject(r, sha)
		if err != nil {
			return err
		}
		if obj.Kind != objstore.KindCommit {
			return fmt.Errorf("%s: not a commit", sha)
		}
		kvlm, err := objstore.ParseKVLM(obj.Content)
		if err != nil {
			return err
		}

		label := fmt.Sprintf("%s: %s", sha[:7], escapeMessage(kvlm.Message))
		n := g.Node(nodeID(sha)).Label(label)
		nodes[sha] = n

		parents, _ := kvlm.All("parent")
		for _, p := range parents {
			parentSha := string(p)
			if err := visit(parentSha); err != nil {
				return err
			}
			g.Edge(n, nodes[parentSha])
		}
		return nil
	}

	if err := visit(sha); err != nil {
		return "", err
	}
	return g.String(), nil
}

func nodeID(sha string) string { return "c_" + sha }

func escapeMessage(raw []byte) string {
	msg := strings.TrimSpace(string(raw))
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.ReplaceAll(msg, `\`, `\\`)
	msg = strings.ReplaceAll(msg, `"`, `\"`)
	return msg
}
