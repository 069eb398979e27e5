package evaluator_test

import (
	"fmt"
	"testing"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/value"
)

// benchData holds 100 users.
var benchData = func() value.Map {
	departments := []string{"Engineering", "Sales", "Marketing", "HR", "Finance"}
	users := make([]any, 100)
	for i := range users {
		users[i] = map[string]any{
			"id":         i + 1,
			"name":       fmt.Sprintf("User%d", i+1),
			"age":        20 + (i % 40),
			"department": departments[i%5],
			"active":     i%2 == 0,
		}
	}
	return value.MapOf("users", users, "title", "Directory")
}()

// ---------------------------------------------------------------------------
// Compilation
// ---------------------------------------------------------------------------

func BenchmarkCompileSimplePath(b *testing.B) {
	ev := evaluator.New(evaluator.WithLogger(quiet))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Compile("@{users[0].name}"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileNestedCalls(b *testing.B) {
	ev := evaluator.New(evaluator.WithLogger(quiet))
	expr := "@{fn:IF_THEN_ELSE(fn:AND(users[0].active, fn:GREATER_THAN(users[0].age, 30)), 'senior', 'junior')}"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Compile(expr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileCached(b *testing.B) {
	ev := evaluator.New(evaluator.WithCaching(true), evaluator.WithLogger(quiet))
	expr := "@{fn:IF_THEN_ELSE(fn:AND(users[0].active, fn:GREATER_THAN(users[0].age, 30)), 'senior', 'junior')}"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Compile(expr); err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Evaluation
// ---------------------------------------------------------------------------

func BenchmarkEvaluatePath(b *testing.B) {
	ev := evaluator.New(evaluator.WithLogger(quiet))
	binding := ev.MustCompile("@{users[42].department}")
	dc := evaluator.NewDataContext(benchData)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev.Evaluate(binding, dc)
	}
}

func BenchmarkEvaluateItemScope(b *testing.B) {
	ev := evaluator.New(evaluator.WithLogger(quiet))
	binding := ev.MustCompile("@{fn:IF_THEN_ELSE(active, name, title)}")
	root := evaluator.NewDataContext(benchData)
	users := benchData.Lookup("users").AsArray()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		item := root.Clone(users.Get(i%users.Len()).AsMap(), i%users.Len())
		ev.Evaluate(binding, item)
	}
}
