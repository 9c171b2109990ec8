package agent

import (
	"fmt"
	"sort"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// Agent groups the intents of one conversational agent.
type Agent struct {
	name    string
	intents []schema.Intent
	index   map[string]int
}

// New returns an empty agent.
func New(name string) *Agent {
	return &Agent{name: name, index: make(map[string]int)}
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Register adds intent to the agent. Intent names must be unique.
func (a *Agent) Register(intent schema.Intent) error {
	if err := schema.ValidateIntentName(intent.Name); err != nil {
		return err
	}
	if _, dup := a.index[intent.Name]; dup {
		return fmt.Errorf("intent %s is already registered in agent %s", intent.Name, a.name)
	}
	a.index[intent.Name] = len(a.intents)
	a.intents = append(a.intents, intent)
	return nil
}

// Intents returns the registered intents in registration order.
func (a *Agent) Intents() []schema.Intent {
	out := make([]schema.Intent, len(a.intents))
	copy(out, a.intents)
	return out
}

// Intent looks up a registered intent by name.
func (a *Agent) Intent(name string) (schema.Intent, bool) {
	i, ok := a.index[name]
	if !ok {
		return schema.Intent{}, false
	}
	return a.intents[i], true
}

// CustomEntities returns the non-system entity types referenced by the
// registered intents, sorted and deduplicated. Each one needs an entity
// language file per language.
func (a *Agent) CustomEntities() []schema.EntityType {
	seen := make(map[schema.EntityType]bool)
	var out []schema.EntityType
	for _, intent := range a.intents {
		for _, p := range intent.Params {
			if p.EntityType.IsSystem() || seen[p.EntityType] {
				continue
			}
			seen[p.EntityType] = true
			out = append(out, p.EntityType)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
