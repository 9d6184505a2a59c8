// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

// The bit machine evaluates a type-checked program over two stacks of
// frames.  The active read frame holds the input of the expression being
// evaluated and the active write frame receives its output.  Composition
// allocates a midpoint frame, evaluates its first operand into it, turns
// it around, and evaluates the second operand from it.
//
// Evaluation is tail-call optimized: an expression evaluated in TCO mode
// owns its read frame and releases it at the frame's last use, which
// keeps the live cell count within the static bound.  The whole machine
// runs on an explicit task stack, so program depth never translates into
// host stack depth.

type taskOp uint8

const (
	// taskEval evaluates node ix with the given TCO mode.
	taskEval taskOp = iota

	// taskMove turns the active write frame into the active read frame,
	// sequencing the two halves of a composition.
	taskMove

	// taskDiscPost runs the second half of a disconnect after its left
	// operand has produced the midpoint frame.
	taskDiscPost

	// taskBwd rewinds the active read cursor by n, undoing the skip a
	// case or drop performed in non-TCO mode.
	taskBwd

	// taskDropRead releases the active read frame.
	taskDropRead
)

type task struct {
	op   taskOp
	ix   int32
	mode bool
	n    uint32
}

// Per-node execution flags recorded while the machine runs.  The
// anti-DoS check consumes the executed and branch-taken flags; the
// remaining two record how the node last ran.
const (
	// flagExecuted marks a node the run evaluated at least once.
	flagExecuted uint8 = 1 << iota

	// flagTCO marks a node that was evaluated in TCO mode, owning and
	// releasing its read frame.
	flagTCO

	// flagLeftTaken and flagRightTaken mark the branches a case
	// resolved to across the whole run.
	flagLeftTaken
	flagRightTaken

	// flagLastRight tracks the branch a case took most recently: set
	// on a right resolution, cleared on a left one.
	flagLastRight
)

type machine struct {
	d   *dag
	ta  *typeArena
	env *TxEnv

	read  []*Frame
	write []*Frame
	tasks []task

	flags []uint8
}

func (m *machine) activeRead() *Frame  { return m.read[len(m.read)-1] }
func (m *machine) activeWrite() *Frame { return m.write[len(m.write)-1] }

func (m *machine) dropRead() {
	m.read = m.read[:len(m.read)-1]
}

// moveFrame turns the active write frame around: it leaves the write
// stack, rewinds to its start, and becomes the active read frame.
func (m *machine) moveFrame() {
	f := m.activeWrite()
	m.write = m.write[:len(m.write)-1]
	f.cursor = 0
	m.read = append(m.read, f)
}

func (m *machine) push(t task) {
	m.tasks = append(m.tasks, t)
}

// newMachine prepares a bit machine for one run of the DAG's root, with
// the two root frames already in place.
func newMachine(d *dag, ta *typeArena, env *TxEnv, b staticBounds) *machine {
	m := &machine{
		d:     d,
		ta:    ta,
		env:   env,
		read:  make([]*Frame, 0, b.frames),
		write: make([]*Frame, 0, b.frames),
		flags: make([]uint8, len(d.nodes)),
	}

	root := &d.nodes[d.root()]
	m.read = append(m.read, newFrame(ta.tyWidth(root.srcTy)))
	m.write = append(m.write, newFrame(ta.tyWidth(root.tgtTy)))
	m.push(task{op: taskEval, ix: d.root()})
	return m
}

// runProgram executes the root of the DAG on the bit machine and then
// verifies the anti-DoS property: every committed node must have pulled
// its weight during this run.
func runProgram(d *dag, ta *typeArena, env *TxEnv, b staticBounds) error {
	m := newMachine(d, ta, env, b)
	if err := m.run(); err != nil {
		return err
	}
	return m.checkAntiDoS()
}

// run drains the task stack.
func (m *machine) run() error {
	for len(m.tasks) > 0 {
		t := m.tasks[len(m.tasks)-1]
		m.tasks = m.tasks[:len(m.tasks)-1]

		var err error
		switch t.op {
		case taskEval:
			err = m.step(t.ix, t.mode)
		case taskMove:
			m.moveFrame()
		case taskDiscPost:
			m.disconnectPost(t.ix, t.mode)
		case taskBwd:
			m.activeRead().bwd(t.n)
		case taskDropRead:
			m.dropRead()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// step evaluates a single node.  Compound nodes push follow-up tasks;
// leaves write their output directly and, in TCO mode, release the read
// frame they were the last user of.
func (m *machine) step(ix int32, mode bool) error {
	nd := &m.d.nodes[ix]
	m.flags[ix] |= flagExecuted
	if mode {
		m.flags[ix] |= flagTCO
	}

	switch nd.tag {
	case tagComp:
		mid := m.ta.tyWidth(m.d.nodes[nd.left].tgtTy)
		m.write = append(m.write, newFrame(mid))
		m.push(task{op: taskEval, ix: nd.right, mode: true})
		m.push(task{op: taskMove})
		m.push(task{op: taskEval, ix: nd.left, mode: mode})

	case tagPair:
		m.push(task{op: taskEval, ix: nd.right, mode: mode})
		m.push(task{op: taskEval, ix: nd.left})

	case tagCase:
		sumTy, _ := m.ta.tyChildren(nd.srcTy)
		armL, armR := m.ta.tyChildren(sumTy)
		sumWidth := m.ta.tyWidth(sumTy)

		branch, armWidth := nd.left, m.ta.tyWidth(armL)
		if m.activeRead().peek() {
			branch, armWidth = nd.right, m.ta.tyWidth(armR)
			m.flags[ix] |= flagRightTaken | flagLastRight
		} else {
			m.flags[ix] |= flagLeftTaken
			m.flags[ix] &^= flagLastRight
		}
		if m.d.isHidden(branch) {
			return verifyError(ErrExecAssert,
				"execution reached a pruned branch")
		}

		skip := sumWidth - armWidth
		m.activeRead().fwd(skip)
		if !mode {
			m.push(task{op: taskBwd, n: skip})
		}
		m.push(task{op: taskEval, ix: branch, mode: mode})

	case tagInjl, tagInjr:
		w := m.activeWrite()
		w.writeBit(nd.tag == tagInjr)
		pad := m.ta.tyWidth(nd.tgtTy) - 1 -
			m.ta.tyWidth(m.d.nodes[nd.left].tgtTy)
		w.skip(pad)
		m.push(task{op: taskEval, ix: nd.left, mode: mode})

	case tagTake:
		m.push(task{op: taskEval, ix: nd.left, mode: mode})

	case tagDrop:
		first, _ := m.ta.tyChildren(nd.srcTy)
		skip := m.ta.tyWidth(first)
		m.activeRead().fwd(skip)
		if !mode {
			m.push(task{op: taskBwd, n: skip})
		}
		m.push(task{op: taskEval, ix: nd.left, mode: mode})

	case tagIden:
		m.activeWrite().copyFrom(m.activeRead(),
			m.ta.tyWidth(nd.srcTy))
		if mode {
			m.dropRead()
		}

	case tagUnit:
		if mode {
			m.dropRead()
		}

	case tagWitness, tagWord:
		m.activeWrite().writeBits(nd.valueBits, nd.valueLen)
		if mode {
			m.dropRead()
		}

	case tagJet:
		dst, src := m.activeWrite(), m.activeRead()
		start := dst.cursor
		if !nd.jet.fn(dst, src, m.env) {
			return verifyError(ErrExecJet, "jet rejected its input")
		}
		dst.cursor = start + m.ta.tyWidth(nd.tgtTy)
		if mode {
			m.dropRead()
		}

	case tagDisconnect:
		// The left operand runs against a prefix frame holding the
		// right operand's commitment followed by the input value.
		wA := m.ta.tyWidth(nd.srcTy)
		prefix := newFrame(256 + wA)
		prefix.writeBytes(m.d.nodes[nd.right].cmr[:])
		prefix.copyFrom(m.activeRead(), wA)
		prefix.cursor = 0
		if mode {
			m.dropRead()
		}
		m.read = append(m.read, prefix)

		mid := m.ta.tyWidth(m.d.nodes[nd.left].tgtTy)
		m.write = append(m.write, newFrame(mid))
		m.push(task{op: taskDiscPost, ix: ix, mode: mode})
		m.push(task{op: taskEval, ix: nd.left, mode: true})
	}
	return nil
}

// disconnectPost finishes a disconnect once its left operand has filled
// the midpoint frame: the first component is copied through to the
// output and the right operand consumes the second.
func (m *machine) disconnectPost(ix int32, mode bool) {
	nd := &m.d.nodes[ix]
	m.moveFrame()

	midTy := m.d.nodes[nd.left].tgtTy
	first, _ := m.ta.tyChildren(midTy)
	wB := m.ta.tyWidth(first)

	mid := m.activeRead()
	m.activeWrite().copyFrom(mid, wB)
	mid.fwd(wB)

	if !mode {
		m.push(task{op: taskDropRead})
	}
	m.push(task{op: taskEval, ix: nd.right, mode: mode})
}

// checkAntiDoS rejects the run if any committed node did no work: every
// non-hidden node must have executed, and both visible branches of every
// case must have been taken.  A program failing this check carries bytes
// a pruned variant would not, which is exactly the redundancy the hidden
// node mechanism exists to strip.
func (m *machine) checkAntiDoS() error {
	for i := range m.d.nodes {
		nd := &m.d.nodes[i]
		if nd.tag == tagHidden {
			continue
		}
		if m.flags[i]&flagExecuted == 0 {
			return verifyError(ErrAntiDoS,
				"committed node was never executed")
		}
		if nd.tag != tagCase {
			continue
		}
		if !m.d.isHidden(nd.left) && m.flags[i]&flagLeftTaken == 0 {
			return verifyError(ErrAntiDoS,
				"case branch was never taken")
		}
		if !m.d.isHidden(nd.right) && m.flags[i]&flagRightTaken == 0 {
			return verifyError(ErrAntiDoS,
				"case branch was never taken")
		}
	}
	return nil
}
