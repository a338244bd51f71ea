package counter

import (
	"github.com/vango-dev/prsh"
	"github.com/vango-dev/prsh/pkg/vdom"
)

// StoreContext carries the counter store to the components below App.
var StoreContext = prsh.NewStoreContext[State]()

// SelectCount selects the count.
func SelectCount(s State) int { return s.Count }

// SelectParity selects "even" or "odd".
func SelectParity(s State) string {
	if s.Count%2 == 0 {
		return "even"
	}
	return "odd"
}

// Counter renders the current count.
func Counter() vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		count := prsh.UseSelector(StoreContext, SelectCount)
		return vdom.P(vdom.Class("count"), vdom.Textf("Count: %d", count))
	})
}

// Parity renders whether the count is even or odd. It only re-renders when
// the parity changes.
func Parity() vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		parity := prsh.UseSelector(StoreContext, SelectParity)
		return vdom.P(vdom.Class("parity"), vdom.Text(parity))
	})
}

// Controls renders the forms that post counter actions.
func Controls() *vdom.VNode {
	button := func(action, label string) *vdom.VNode {
		return vdom.Form(vdom.Method("post"), vdom.Action("/"+action),
			vdom.Button(vdom.Type("submit"), vdom.Text(label)),
		)
	}
	return vdom.Div(vdom.Class("controls"),
		button("decrement", "-"),
		button("increment", "+"),
		button("reset", "Reset"),
	)
}

// App provides s to a Counter and a Parity.
func App(s prsh.Store[State]) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		return StoreContext.Provider(s,
			vdom.Main(vdom.Class("counter"),
				Counter(),
				Parity(),
				Controls(),
			),
		)
	})
}
