/*
Package art builds, evaluates and serializes randomart trees.

A tree is a strict hierarchy of operator nodes. Each node has a fixed Kind, which owns the
node's arity, its parameter schema and its formula. Evaluating the root at (x, y) in [-1, 1]²
yields a domain.Color.

Trees come from two places:

  - A Generator, which spends a complexity budget recursively and draws every random choice
    from the single source it was given. The same phrase and complexity always give the same tree.
  - Parse, which reads the text produced by Format or FormatIndent. Parameters are written
    literally, so parsing never needs a random source.

Usage:

	gen, err := art.NewGenerator(art.DefaultRegistry(), domain.NewSource("hello"))
	if err != nil {
		log.Fatal(err)
	}
	tree := gen.Generate(12)
	fmt.Println(art.Format(tree))
	c := tree.Eval(0.25, -0.5)
*/
package art
