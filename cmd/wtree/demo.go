package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/template"
	"github.com/vango-dev/wtree/pkg/vdom"
)

func demoCmd(opts *globalOptions) *cobra.Command {
	var (
		counters int
		steps    int
		keep     bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Mount a sample tree and print the document",
		Long: `Mount an app node with a list of counter children, apply state
updates, drop one counter, and print the resulting document.

Examples:
  wtree demo
  wtree demo --counters=5 --steps=20
  wtree demo --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			rt := newPlayground(cfg, os.Stderr)
			return runDemo(cmd.Context(), rt, cmd.OutOrStdout(), counters, steps, keep)
		},
	}

	cmd.Flags().IntVarP(&counters, "counters", "n", 3, "Number of counter children")
	cmd.Flags().IntVarP(&steps, "steps", "s", 6, "Number of increments spread over the counters")
	cmd.Flags().BoolVar(&keep, "keep", false, "Do not destroy the tree at the end")

	return cmd
}

// registerDemoTemplates adds the app and counter templates.
func registerDemoTemplates(r *template.Registry) {
	r.Add("counter", func(c *template.Ctx) *vdom.VNode {
		return vdom.Li(vdom.Class("counter"),
			vdom.Strong(vdom.Textf("%v", c.Prop("label"))),
			vdom.Span(vdom.Textf("%v", c.Get("count"))),
		)
	})
	r.Add("app", func(c *template.Ctx) *vdom.VNode {
		labels, _ := c.Get("counters").([]string)
		items := make([]*vdom.VNode, 0, len(labels))
		for _, label := range labels {
			items = append(items, c.Child(label, component.Options{
				Name:     "counter",
				Template: "counter",
				Props:    component.Props{"label": label},
				State:    component.State{"count": 0},
			}))
		}
		return vdom.Section(
			vdom.H1(vdom.Textf("%v", c.Get("title"))),
			vdom.Ul(items),
		)
	})
}

func demoLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("counter-%d", i+1)
	}
	return labels
}

// mountDemo mounts the demo app into doc.
func mountDemo(ctx context.Context, rt *playground, doc *dom.Document, counters int) (*component.Node, error) {
	app := component.NewRoot(rt.env, component.Options{
		Name:     "app",
		Template: "app",
		State: component.State{
			"title":    "wtree demo",
			"counters": demoLabels(counters),
		},
	})
	if _, err := app.Mount(ctx, doc.Body); err != nil {
		app.Destroy()
		return nil, err
	}
	return app, nil
}

// increment bumps the count of the i-th child of app.
func increment(ctx context.Context, app *component.Node, i int) error {
	children := app.Children()
	if len(children) == 0 {
		return nil
	}
	child := children[i%len(children)]
	count, _ := child.Get("count").(int)
	_, err := child.UpdateState(ctx, component.State{"count": count + 1})
	return err
}

func runDemo(ctx context.Context, rt *playground, out io.Writer, counters, steps int, keep bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if counters < 1 {
		counters = 1
	}

	doc := dom.NewDocument()
	app, err := mountDemo(ctx, rt, doc, counters)
	if err != nil {
		return err
	}
	success("Mounted %s with %d counters", app, counters)

	for i := 0; i < steps; i++ {
		if err := increment(ctx, app, i); err != nil {
			return err
		}
	}
	info("Applied %d increments", steps)

	if counters > 1 {
		labels := demoLabels(counters)[1:]
		if _, err := app.UpdateState(ctx, component.State{"counters": labels}); err != nil {
			return err
		}
		info("Dropped counter-1")
	}

	fmt.Fprintln(out, doc.Body.HTML())
	info("Live nodes: %d", len(rt.collector.Live()))

	if !keep {
		app.Destroy()
		info("Destroyed tree, %d live nodes left", len(rt.collector.Live()))
	}
	info("Recorded %d lifecycle events", len(rt.collector.Events()))
	return nil
}
