package vecmap

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/commands"
	"github.com/leanovate/gopter/gen"
	"github.com/stretchr/testify/assert"
)

var testThingy *testing.T

type testMap = Map[uint, uint, Inline4]

type expected struct {
	entries  map[uint]uint
	snapshot []map[uint]uint
}

type system struct {
	m        *testMap
	snapshot []*testMap
	cmdCount int
}

const (
	uimax      = 99
	nSnapshots = 5
)

var (
	cmdCount = 0
	debug    = false
)

func progress(i interface{}) {
	if debug {
		fmt.Printf("%v\n", i)
	}
}

var SizeCommand = &commands.ProtoCommand{
	Name: "Size",
	RunFunc: func(s commands.SystemUnderTest) commands.Result {
		s.(*system).cmdCount++
		return s.(*system).m.Len()
	},
	NextStateFunc:    func(state commands.State) commands.State { return state },
	PreConditionFunc: func(state commands.State) bool { return true },
	PostConditionFunc: func(state commands.State, result commands.Result) *gopter.PropResult {
		if len(state.(*expected).entries) != result.(int) {
			fmt.Printf("sizeCommandPostCondition: expected=%d, actual=%d\n", len(state.(*expected).entries), result.(int))
			return &gopter.PropResult{Status: gopter.PropFalse}
		}
		progress("Size")
		return &gopter.PropResult{Status: gopter.PropTrue}
	},
}

// OrderCommand checks that entries are strictly ascending and that the map
// has spilled exactly when it outgrew its inline slots.
var OrderCommand = &commands.ProtoCommand{
	Name: "Order",
	RunFunc: func(s commands.SystemUnderTest) commands.Result {
		m := s.(*system).m
		s.(*system).cmdCount++
		if !strictlyAscending(m) {
			return fmt.Errorf("keys out of order: %v", keys(m))
		}
		if m.Len() > 4 && !m.Spilled() {
			return fmt.Errorf("%d entries but not spilled", m.Len())
		}
		return nil
	},
	NextStateFunc:    func(state commands.State) commands.State { return state },
	PreConditionFunc: func(state commands.State) bool { return true },
	PostConditionFunc: func(state commands.State, result commands.Result) *gopter.PropResult {
		if result != nil {
			fmt.Printf("orderPostCondition: %v\n", result)
			return &gopter.PropResult{Status: gopter.PropFalse}
		}
		progress("Order")
		return &gopter.PropResult{Status: gopter.PropTrue}
	},
}

// ReloadCommand replaces the map with its own JSON round trip.
var ReloadCommand = &commands.ProtoCommand{
	Name: "Reload",
	RunFunc: func(s commands.SystemUnderTest) commands.Result {
		b, err := json.Marshal(s.(*system).m)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		reloaded := New[uint, uint, Inline4]()
		if err = json.Unmarshal(b, reloaded); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		s.(*system).m = reloaded
		s.(*system).cmdCount++
		return nil
	},
	NextStateFunc:    func(state commands.State) commands.State { return state },
	PreConditionFunc: func(state commands.State) bool { return true },
	PostConditionFunc: func(state commands.State, result commands.Result) *gopter.PropResult {
		if result != nil {
			fmt.Printf("reloadPostCondition: %v\n", result)
			return &gopter.PropResult{Status: gopter.PropFalse}
		}
		progress("Reload")
		return &gopter.PropResult{Status: gopter.PropTrue}
	},
}

type diffCommand uint

func (n diffCommand) Run(s commands.SystemUnderTest) commands.Result {
	slot := int(n) % nSnapshots
	old := s.(*system).snapshot[slot]
	diffs := map[bool]map[uint]uint{
		false: {},
		true:  {},
	}
	err := s.(*system).m.Diff(old,
		func(added bool, removed bool, k uint, addedValue uint, removedValue uint) (bool, error) {
			if added {
				diffs[false][k] = addedValue
			}
			if removed {
				diffs[true][k] = removedValue
			}
			return true, nil
		})
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	s.(*system).cmdCount++
	return diffs
}

func (n diffCommand) NextState(state commands.State) commands.State {
	return state
}

func (n diffCommand) PreCondition(state commands.State) bool {
	return state.(*expected).snapshot[int(n)%nSnapshots] != nil
}

func (n diffCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	diffs := map[bool]map[uint]uint{
		false: {},
		true:  {},
	}
	slot := int(n) % nSnapshots
	new := state.(*expected).entries
	old := state.(*expected).snapshot[slot]
	for k, v := range new {
		oldVal, oldHasKey := old[k]
		if oldHasKey && oldVal != v {
			diffs[true][k] = oldVal
			diffs[false][k] = v
		} else if !oldHasKey {
			diffs[false][k] = v
		}
	}
	for k, v := range old {
		_, newHasKey := new[k]
		if !newHasKey {
			diffs[true][k] = v
		}
	}
	switch result := result.(type) {
	case error:
		fmt.Printf("diff: %v\n", result)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	actual := result.(map[bool]map[uint]uint)
	if !reflect.DeepEqual(diffs, actual) {
		assert.Equal(testThingy, diffs, actual)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	progress(n)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (n diffCommand) String() string {
	slot := int(n) % nSnapshots
	return fmt.Sprintf("Diff(%d)", slot)
}

var genDiff = uintCommandGen(
	func(slot uint) commands.Command { return diffCommand(slot) },
	func(command interface{}) uint { return uint(command.(diffCommand)) })

// snapshotCommand copies the map through its binary encoding.
type snapshotCommand uint

func (n snapshotCommand) Run(s commands.SystemUnderTest) commands.Result {
	slot := int(n) % nSnapshots
	b, err := s.(*system).m.MarshalBinary()
	if err != nil {
		return err
	}
	snapshot := New[uint, uint, Inline4]()
	if err = snapshot.UnmarshalBinary(b); err != nil {
		return err
	}
	s.(*system).snapshot[slot] = snapshot
	return nil
}

func (n snapshotCommand) NextState(state commands.State) commands.State {
	s := state.(*expected)
	slot := int(n) % nSnapshots
	snapshot := make(map[uint]uint, len(s.entries))
	for k, v := range s.entries {
		snapshot[k] = v
	}
	s.snapshot[slot] = snapshot
	return s
}

func (n snapshotCommand) PreCondition(state commands.State) bool {
	return true
}

func (n snapshotCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	switch result := result.(type) {
	case error:
		fmt.Printf("snapshotPostCondition: %v\n", result)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	progress(n)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (n snapshotCommand) String() string {
	slot := int(n) % nSnapshots
	return fmt.Sprintf("Snapshot(%d)", slot)
}

var genSnapshot = uintCommandGen(
	func(slot uint) commands.Command { return snapshotCommand(slot) },
	func(command interface{}) uint { return uint(command.(snapshotCommand)) })

type getResult struct {
	value uint
	ok    bool
}

type getCommand uint

func (value getCommand) Run(s commands.SystemUnderTest) commands.Result {
	val, ok := s.(*system).m.Get(uint(value))
	s.(*system).cmdCount++
	return getResult{val, ok}
}

func (value getCommand) NextState(state commands.State) commands.State {
	return state
}

func (value getCommand) PreCondition(state commands.State) bool {
	return true
}

func (value getCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	expected, ok := state.(*expected).entries[uint(value)]
	actual := result.(getResult)
	if ok == actual.ok && expected == actual.value {
		progress(value)
		return &gopter.PropResult{Status: gopter.PropTrue}
	}
	fmt.Printf("getCommandPostCondition: (value=%v) expected=%v,%v actual=%v,%v\n", value, expected, ok, actual.value, actual.ok)
	return &gopter.PropResult{Status: gopter.PropFalse}
}

func (value getCommand) String() string {
	return fmt.Sprintf("Get(%d)", value)
}

var genGet = uintCommandGen(
	func(value uint) commands.Command { return getCommand(value) },
	func(command interface{}) uint { return uint(command.(getCommand)) })

type insertCommand uint

func (value insertCommand) Run(s commands.SystemUnderTest) commands.Result {
	_, replaced := s.(*system).m.Insert(uint(value), uint(value))
	s.(*system).cmdCount++
	return replaced
}

func (value insertCommand) NextState(state commands.State) commands.State {
	s := state.(*expected)
	s.entries[uint(value)] = uint(value)
	return state
}

func (value insertCommand) PreCondition(state commands.State) bool {
	s := state.(*expected)
	existing, present := s.entries[uint(value)]
	return !present || existing == uint(value)
}

func (value insertCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	if _, ok := result.(bool); !ok {
		fmt.Printf("insertCommandPostCondition: %v\n", result)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	progress(value)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (value insertCommand) String() string {
	return fmt.Sprintf("Insert(%d,%d)", value, value)
}

var genInsert = uintCommandGen(
	func(value uint) commands.Command { return insertCommand(value) },
	func(command interface{}) uint { return uint(command.(insertCommand)) })

type updateCommand uint

func (value updateCommand) Run(s commands.SystemUnderTest) commands.Result {
	old, replaced := s.(*system).m.Insert(uint(value), uint(value))
	s.(*system).cmdCount++
	if !replaced {
		return fmt.Errorf("update of %d did not replace", value)
	}
	if old == uint(value) {
		return fmt.Errorf("update of %d returned the new value", value)
	}
	return nil
}

func (value updateCommand) NextState(state commands.State) commands.State {
	state.(*expected).entries[uint(value)] = uint(value)
	return state
}

func (value updateCommand) PreCondition(state commands.State) bool {
	s := state.(*expected)
	existing, present := s.entries[uint(value)]
	return present && existing != uint(value)
}

func (value updateCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	if result != nil {
		fmt.Printf("updateCommandPostCondition: %v\n", result)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	progress(value)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (value updateCommand) String() string {
	return fmt.Sprintf("Update(%d,%d)", value, value)
}

var genUpdate = uintCommandGen(
	func(value uint) commands.Command { return updateCommand(value) },
	func(command interface{}) uint { return uint(command.(updateCommand)) })

func uintCommandGen(toCommand func(uint) commands.Command, fromCommand func(interface{}) uint) gopter.Gen {
	return gen.UIntRange(0, uimax).Map(func(value uint) commands.Command {
		return toCommand(value)
	}).WithShrinker(func(v interface{}) gopter.Shrink {
		return gen.UIntShrinker(fromCommand(v)).Map(func(value uint) commands.Command {
			return toCommand(value)
		})
	})
}

var (
	maxLen         = 0
	vecmapCommands = &commands.ProtoCommands{
		NewSystemUnderTestFunc: func(initialState commands.State) commands.SystemUnderTest {
			m := New[uint, uint, Inline4]()
			for key, value := range initialState.(*expected).entries {
				m.Insert(key, value)
			}
			progress("NewSystem")
			return &system{m, make([]*testMap, nSnapshots), 0}
		},
		DestroySystemUnderTestFunc: func(s commands.SystemUnderTest) {
			if l := s.(*system).m.Len(); l > maxLen {
				maxLen = l
			}
			cmdCount += s.(*system).cmdCount
		},
		InitialStateGen: gen.MapOf(gen.UIntRange(0, uimax), gen.UIntRange(0, uimax)).Map(func(entries map[uint]uint) *expected {
			return &expected{
				entries:  entries,
				snapshot: make([]map[uint]uint, nSnapshots),
			}
		}),
		InitialPreConditionFunc: func(state commands.State) bool {
			_ = state.(*expected)
			return true
		},
		GenCommandFunc: func(state commands.State) gopter.Gen {
			return gen.Weighted(
				[]gen.WeightedGen{
					{Weight: 5, Gen: genDiff},
					{Weight: 100, Gen: genGet},
					{Weight: 100, Gen: genInsert},
					{Weight: 5, Gen: genSnapshot},
					{Weight: 100, Gen: genUpdate},
					{Weight: 10, Gen: gen.Const(OrderCommand)},
					{Weight: 2, Gen: gen.Const(ReloadCommand)},
					{Weight: 100, Gen: gen.Const(SizeCommand)},
				},
			)
		},
	}
)

func TestExerciser(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	if !testing.Short() {
		parameters.MaxSize = 512
	}
	properties := gopter.NewProperties(parameters)
	properties.Property("vecmap exerciser", commands.Prop(vecmapCommands))
	testThingy = t
	properties.TestingRun(t)
	testThingy = nil
	if !t.Failed() {
		assert.Greater(t, maxLen, 4)
		fmt.Printf("biggest map: %d\n", maxLen)
		fmt.Printf("successful commands: %d\n", cmdCount)
	}
}
