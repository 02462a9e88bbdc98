// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"RESET_PC":    fmt.Sprintf("%#x", RESET_PC),
	"IO_BASE":     fmt.Sprintf("%#x", IO_BASE),
	"MEMORY_SIZE": fmt.Sprintf("%#x", MEMORY_SIZE),
}

// Assembler is a single pass macro assembler for the acc8 instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	addr int // Address of the next emitted byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// syntaxMap maps instruction syntax to its descriptor.
var syntaxMap = sync.OnceValue(func() map[string]Instruction {
	sm := make(map[string]Instruction)
	for _, ins := range Instructions() {
		sm[ins.Syntax] = ins
	}
	return sm
})

// operandNames are the register and condition operands, in normalized form.
var operandNames = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "H": true, "L": true,
	"BC": true, "DE": true, "HL": true, "SP": true,
	"(BC)": true, "(DE)": true, "(HL)": true, "(C)": true,
	"NZ": true, "Z": true, "NC": true,
}

var reLabel = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	number := word
	if number[0] == '$' {
		number = "0x" + number[1:]
	}
	v64, err := strconv.ParseInt(number, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// resolve returns the value of an operand expression, or the label
// it refers to if that must be linked later.
func (asm *Assembler) resolve(word string) (value int, label string, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		if reLabel.MatchString(key) && !strings.ContainsAny(key, ".@") {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine parses a single line into words, handling equates,
// labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.addr
		if asm.Verbose {
			log.Printf("label %v = 0x%04x", label, asm.addr)
		}
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := splitArgs(strings.Join(words[1:], " "))
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// splitArgs splits a comma separated operand list.
func splitArgs(text string) (args []string) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}
	for _, arg := range strings.Split(text, ",") {
		args = append(args, strings.TrimSpace(arg))
	}
	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.addr = int(RESET_PC)
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(strings.ReplaceAll(text_comment[0], "\t", " "))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.ToLower(words[0]) == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   splitArgs(strings.Join(words[2:], " ")),
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.ToLower(words[0]) == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		offset := len(op.Bytes) - op.Link.Size()
		switch op.Link {
		case OPERAND_WORD:
			op.Bytes[offset+0] = byte(addr & 0xff)
			op.Bytes[offset+1] = byte((addr >> 8) & 0xff)
		case OPERAND_REL:
			var disp byte
			disp, err = displacement(addr, op.Addr+len(op.Bytes))
			if err != nil {
				return
			}
			op.Bytes[offset] = disp
		default:
			log.Fatalf("Unable to link label '%s' to line %d: %v", op.LinkLabel, op.LineNo, op.Words)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// displacement encodes the relative jump from next to target.
func displacement(target, next int) (disp byte, err error) {
	delta := target - next
	if delta < -128 || delta > 127 {
		err = ErrRangeRelative
		return
	}
	disp = byte(int8(delta))
	return
}

// emit appends an opcode at the current address.
func (asm *Assembler) emit(op Opcode) {
	op.Addr = asm.addr
	asm.Opcode = append(asm.Opcode, op)
	asm.addr += len(op.Bytes)
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	args := splitArgs(strings.Join(words[1:], " "))

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		var value int
		var label string
		value, label, err = asm.resolve(args[0])
		if err != nil {
			return
		}
		if len(label) != 0 || value < 0 || value >= MEMORY_SIZE {
			err = ErrOriginSyntax
			return
		}
		asm.addr = value
	case ".db", ".byte":
		if len(args) == 0 {
			err = ErrDataSyntax
			return
		}
		data := make([]byte, 0, len(args))
		for _, arg := range args {
			var value int
			var label string
			value, label, err = asm.resolve(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				err = ErrOperandInvalid
				return
			}
			if value < -128 || value > 0xff {
				err = ErrRangeByte
				return
			}
			data = append(data, byte(value))
		}
		asm.emit(Opcode{LineNo: lineno, Words: words, Bytes: data})
	case ".dw", ".word":
		if len(args) == 0 {
			err = ErrDataSyntax
			return
		}
		for _, arg := range args {
			var value int
			var label string
			value, label, err = asm.resolve(arg)
			if err != nil {
				return
			}
			if len(label) == 0 && (value < -32768 || value > 0xffff) {
				err = ErrRangeWord
				return
			}
			op := Opcode{LineNo: lineno, Words: words, Bytes: []byte{byte(value & 0xff), byte((value >> 8) & 0xff)}}
			if len(label) != 0 {
				op.LinkLabel = label
				op.Link = OPERAND_WORD
			}
			asm.emit(op)
		}
	default:
		var op Opcode
		op, err = asm.parseInstruction(words[0], args)
		if err != nil {
			return
		}
		op.LineNo = lineno
		op.Words = words
		asm.emit(op)
	}

	return
}

// parseInstruction encodes a single instruction.
func (asm *Assembler) parseInstruction(mnemonic string, args []string) (op Opcode, err error) {
	tokens := make([]string, len(args))
	expr := ""
	exprIndex := -1
	for n, arg := range args {
		if len(arg) == 0 {
			err = ErrOperandInvalid
			return
		}
		equate, ok := asm.Equate[arg]
		if ok {
			arg = equate
		}
		norm := strings.ToUpper(strings.ReplaceAll(arg, " ", ""))
		if operandNames[norm] {
			tokens[n] = norm
			continue
		}
		if exprIndex >= 0 {
			err = ErrOperandInvalid
			return
		}
		exprIndex = n
		expr = arg
	}

	mnemonic = strings.ToUpper(mnemonic)
	key := func() string {
		if len(tokens) == 0 {
			return mnemonic
		}
		return mnemonic + " " + strings.Join(tokens, ",")
	}

	var ins Instruction
	var found bool
	if exprIndex < 0 {
		ins, found = syntaxMap()[key()]
	} else {
		for _, placeholder := range []string{"n", "nn", "e"} {
			tokens[exprIndex] = placeholder
			ins, found = syntaxMap()[key()]
			if found {
				break
			}
		}
	}
	if !found {
		if _, ok := syntaxMap()[mnemonic]; !ok && !hasMnemonic(mnemonic) {
			err = ErrInstructionInvalid
		} else {
			err = ErrOperandInvalid
		}
		return
	}

	op.Bytes = []byte{ins.Opcode}

	switch ins.Operand {
	case OPERAND_PAD:
		op.Bytes = append(op.Bytes, 0x00)
		return
	case OPERAND_NONE:
		return
	}

	value, label, err := asm.resolve(expr)
	if err != nil {
		return
	}

	switch ins.Operand {
	case OPERAND_BYTE:
		if len(label) != 0 {
			err = ErrLabelMissing(label)
			return
		}
		if value < -128 || value > 0xff {
			err = ErrRangeByte
			return
		}
		op.Bytes = append(op.Bytes, byte(value))
	case OPERAND_WORD:
		if len(label) == 0 && (value < -32768 || value > 0xffff) {
			err = ErrRangeWord
			return
		}
		op.Bytes = append(op.Bytes, byte(value&0xff), byte((value>>8)&0xff))
		if len(label) != 0 {
			op.LinkLabel = label
			op.Link = OPERAND_WORD
		}
	case OPERAND_REL:
		op.Bytes = append(op.Bytes, 0x00)
		if len(label) != 0 {
			op.LinkLabel = label
			op.Link = OPERAND_REL
			return
		}
		op.Bytes[1], err = displacement(value, asm.addr+len(op.Bytes))
	}

	return
}

// hasMnemonic is true if any instruction uses mnemonic.
func hasMnemonic(mnemonic string) bool {
	for syntax := range syntaxMap() {
		if mnemonic == syntax || strings.HasPrefix(syntax, mnemonic+" ") {
			return true
		}
	}
	return false
}
