package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentParsing(t *testing.T) {
	manager := NewParserManager(testLogger(), WithPoolSize(4))
	defer manager.Close()

	const goroutines = 64
	source := []byte("import { b, a } from './x';\nimport c from 'c';\n")

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := LanguageTypeScript
			if i%2 == 1 {
				lang = LanguageJavaScript
			}
			tree, err := manager.Parse(source, lang, i%4 == 2)
			if err != nil {
				errs <- err
				return
			}
			if tree.RootNode().NamedChildCount() != 2 {
				errs <- assert.AnError
			}
			tree.Close()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stats := manager.GetStats()
	assert.Equal(t, goroutines, stats.Parses)
	assert.Equal(t, 3, stats.Pools)
	assert.LessOrEqual(t, stats.ParsersCreated, 3*4, "each pool stays within its limit")
}

func TestPoolBlocksAtLimit(t *testing.T) {
	manager := NewParserManager(testLogger(), WithPoolSize(1))
	defer manager.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := manager.Parse([]byte("const a = 1;"), LanguageTypeScript, false)
			if assert.NoError(t, err) {
				tree.Close()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, manager.GetStats().ParsersCreated)
}
