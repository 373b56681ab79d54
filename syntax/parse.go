// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Skarn.
// Like the scanner, it reports errors by panicking with an Error,
// which the exported entry points recover into an ordinary error.

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename is
// only used when recording position information. The type of the
// argument for the src parameter must be string, []byte, or io.Reader.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	f = p.parseFile(filename)
	return f, nil
}

// ParseExpr parses a Skarn expression.
// See Parse for explanation of parameters.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken()
	expr = p.parseExpr()
	if p.tok != EOF && p.tok != SEMI {
		p.in.errorf(p.tokval.pos, "got %s, want end of expression", p.tok)
	}
	return expr, nil
}

// ParseDecl parses a single top-level Skarn declaration.
// See Parse for explanation of parameters.
func ParseDecl(filename string, src interface{}) (decl Decl, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken()
	decl = p.parseDecl()
	if p.tok == SEMI {
		p.nextToken()
	}
	if p.tok != EOF {
		p.in.errorf(p.tokval.pos, "got %s, want end of declaration", p.tok)
	}
	return decl, nil
}

type parser struct {
	in     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	p.tok = p.in.nextToken(&p.tokval)
	return oldpos
}

// consume checks that the current token is t, and advances.
func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.in.errorf(p.tokval.pos, "got %s, want %s", p.tok, t)
	}
	return p.nextToken()
}

func (p *parser) parseFile(path string) *File {
	var decls []Decl
	for p.tok != EOF {
		decls = append(decls, p.parseDecl())
		p.consume(SEMI)
	}
	return &File{Path: path, Decls: decls}
}

// parseDecl parses a top-level declaration:
//
//	decl = ["export"] {attr} (fn-decl | let-decl | const-decl | type-decl)
func (p *parser) parseDecl() Decl {
	startPos := p.tokval.pos
	export := false
	if p.tok == EXPORT {
		export = true
		p.nextToken()
	}

	var flags int
	var symbol string
	for p.tok == AT {
		p.nextToken()
		if p.tok != IDENT {
			p.in.errorf(p.tokval.pos, "got %s, want attribute name", p.tok)
		}
		name := p.tokval.raw
		namePos := p.tokval.pos
		p.nextToken()
		switch name {
		case "init":
			flags |= FuncInit
		case "fini":
			flags |= FuncFini
		case "test":
			flags |= FuncTest
		case "symbol":
			p.consume(LPAREN)
			if p.tok != STRING {
				p.in.errorf(p.tokval.pos, "got %s, want string literal", p.tok)
			}
			symbol = p.tokval.string
			p.nextToken()
			p.consume(RPAREN)
		default:
			p.in.errorf(namePos, "unknown attribute @%s", name)
		}
	}

	switch p.tok {
	case FN:
		return p.parseFuncDecl(startPos, export, flags, symbol)
	case LET:
		return p.parseGlobalDecl(startPos, export, symbol)
	case CONST:
		if flags != 0 || symbol != "" {
			p.in.errorf(startPos, "attributes are not valid for constant declarations")
		}
		return p.parseConstDecl(startPos, export)
	case TYPE:
		if flags != 0 || symbol != "" {
			p.in.errorf(startPos, "attributes are not valid for type declarations")
		}
		return p.parseTypeDecl(startPos, export)
	}
	p.in.errorf(p.tokval.pos, "got %s, want declaration", p.tok)
	panic("unreachable")
}

func (p *parser) parseFuncDecl(startPos Position, export bool, flags int, symbol string) *FuncDecl {
	fnPos := p.consume(FN)
	name := p.parseQualifiedIdent()
	params, variadism := p.parseParams()
	result := p.parseTypeExpr()
	proto := &FuncType{
		Fn:        fnPos,
		Params:    params,
		Variadism: variadism,
		Result:    result,
	}
	var body Expr
	if p.tok == EQ {
		p.nextToken()
		body = p.parseExpr()
	}
	return &FuncDecl{
		StartPos: startPos,
		Export:   export,
		Flags:    flags,
		Symbol:   symbol,
		Name:     name,
		Proto:    proto,
		Body:     body,
	}
}

func (p *parser) parseGlobalDecl(startPos Position, export bool, symbol string) *GlobalDecl {
	p.consume(LET)
	name := p.parseQualifiedIdent()
	p.consume(COLON)
	typ := p.parseTypeExpr()
	var init Expr
	if p.tok == EQ {
		p.nextToken()
		init = p.parseExpr()
	}
	return &GlobalDecl{
		StartPos: startPos,
		Export:   export,
		Symbol:   symbol,
		Name:     name,
		Type:     typ,
		Init:     init,
	}
}

func (p *parser) parseConstDecl(startPos Position, export bool) *ConstDecl {
	p.consume(CONST)
	name := p.parseQualifiedIdent()
	p.consume(COLON)
	typ := p.parseTypeExpr()
	p.consume(EQ)
	init := p.parseExpr()
	return &ConstDecl{
		StartPos: startPos,
		Export:   export,
		Name:     name,
		Type:     typ,
		Init:     init,
	}
}

func (p *parser) parseTypeDecl(startPos Position, export bool) *TypeDecl {
	p.consume(TYPE)
	name := p.parseQualifiedIdent()
	p.consume(EQ)
	typ := p.parseTypeExpr()
	return &TypeDecl{
		StartPos: startPos,
		Export:   export,
		Name:     name,
		Type:     typ,
	}
}

// parseParams parses a parenthesized parameter list.
// Parameter names are optional in a bare fn type; the checker insists
// on them for defined functions.
//
//	params = "(" [param {"," param} ["," "..."]] ")"
//	param  = [ident ":"] type ["..."]
func (p *parser) parseParams() ([]*Param, Variadism) {
	p.consume(LPAREN)
	var params []*Param
	variadism := NoVariadism
	for p.tok != RPAREN {
		if p.tok == ELLIPSIS {
			p.nextToken()
			variadism = CVariadism
			break
		}
		param := &Param{NamePos: p.tokval.pos}
		// "name: type" or just "type"; a lone identifier followed by a
		// colon is a parameter name, anything else begins a type.
		t := p.parseTypeExpr()
		if nt, ok := t.(*NamedType); ok && nt.Name.Ns == nil && p.tok == COLON {
			param.Name = nt.Name.Name
			p.nextToken()
			param.Type = p.parseTypeExpr()
		} else {
			param.Type = t
		}
		if p.tok == ELLIPSIS {
			p.nextToken()
			variadism = SkarnVariadism
			params = append(params, param)
			break
		}
		params = append(params, param)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	p.consume(RPAREN)
	return params, variadism
}

func (p *parser) parseQualifiedIdent() *Ident {
	if p.tok != IDENT {
		p.in.errorf(p.tokval.pos, "got %s, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	for p.tok == COLONCOLON {
		p.nextToken()
		if p.tok != IDENT {
			p.in.errorf(p.tokval.pos, "got %s, want identifier", p.tok)
		}
		id = &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw, Ns: id}
		p.nextToken()
	}
	return id
}

// parseExpr parses an expression.
func (p *parser) parseExpr() Expr {
	switch p.tok {
	case LET, CONST, STATIC:
		return p.parseBindingExpr()
	}
	x := p.parseBinaryExpr(0)

	// assignment?
	if p.tok == EQ {
		opPos := p.nextToken()
		rhs := p.parseExpr()
		indirect := false
		if u, ok := x.(*UnaryExpr); ok && u.Op == STAR {
			x = u.X
			indirect = true
		}
		return &AssignExpr{LHS: x, OpPos: opPos, Indirect: indirect, RHS: rhs}
	}
	return x
}

// parseBindingExpr parses one or more comma-chained bindings:
//
//	["static"] ("let"|"const") name [":" type] "=" init {"," ...}
func (p *parser) parseBindingExpr() *BindingExpr {
	letPos := p.tokval.pos
	static := false
	if p.tok == STATIC {
		static = true
		p.nextToken()
	}
	isConst := false
	switch p.tok {
	case LET:
	case CONST:
		isConst = true
	default:
		p.in.errorf(p.tokval.pos, "got %s, want let or const", p.tok)
	}
	p.nextToken()

	var bindings []*Binding
	for {
		if p.tok != IDENT {
			p.in.errorf(p.tokval.pos, "got %s, want identifier", p.tok)
		}
		b := &Binding{
			NamePos: p.tokval.pos,
			Name:    p.tokval.raw,
			Static:  static,
			Const:   isConst,
		}
		p.nextToken()
		if p.tok == COLON {
			p.nextToken()
			b.Type = p.parseTypeExpr()
		}
		p.consume(EQ)
		b.Init = p.parseExpr()
		bindings = append(bindings, b)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	return &BindingExpr{LetPos: letPos, Bindings: bindings}
}

// Binary operators of the Skarn language, in order of increasing
// precedence.
var precedence = map[Token]int{
	PIPE2:   1,
	CARET2:  2,
	AMPAMP:  3,
	EQL:     4,
	NEQ:     4,
	LT:      5,
	GT:      5,
	LE:      5,
	GE:      5,
	PIPE:    6,
	CARET:   7,
	AMP:     8,
	LTLT:    9,
	GTGT:    9,
	PLUS:    10,
	MINUS:   10,
	STAR:    11,
	SLASH:   11,
	PERCENT: 11,
}

func (p *parser) parseBinaryExpr(prec int) Expr {
	x := p.parseUnaryExpr()
	for {
		opprec, ok := precedence[p.tok]
		if !ok || opprec < prec {
			return x
		}
		op := p.tok
		opPos := p.nextToken()
		y := p.parseBinaryExpr(opprec + 1)
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
}

func (p *parser) parseUnaryExpr() Expr {
	switch p.tok {
	case NOT, TILDE, PLUS, MINUS, AMP, STAR:
		op := p.tok
		opPos := p.nextToken()
		x := p.parseUnaryExpr()
		return &UnaryExpr{OpPos: opPos, Op: op, X: x}
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr parses a primary expression followed by any number
// of calls, index/slice operations, field selections, and casts.
func (p *parser) parsePostfixExpr() Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case LPAREN:
			x = p.parseCallSuffix(x)
		case LBRACK:
			x = p.parseIndexSuffix(x)
		case DOT:
			dot := p.nextToken()
			if p.tok != IDENT {
				p.in.errorf(p.tokval.pos, "got %s, want field name", p.tok)
			}
			namePos := p.tokval.pos
			name := p.tokval.raw
			p.nextToken()
			x = &DotExpr{X: x, Dot: dot, NamePos: namePos, Name: name}
		case COLON:
			opPos := p.nextToken()
			typ := p.parseTypeExpr()
			x = &CastExpr{X: x, OpPos: opPos, Kind: Cast, Type: typ}
		case AS:
			opPos := p.nextToken()
			typ := p.parseTypeExpr()
			x = &CastExpr{X: x, OpPos: opPos, Kind: Assertion, Type: typ}
		case IS:
			opPos := p.nextToken()
			typ := p.parseTypeExpr()
			x = &CastExpr{X: x, OpPos: opPos, Kind: Test, Type: typ}
		default:
			return x
		}
	}
}

func (p *parser) parseCallSuffix(fn Expr) Expr {
	lparen := p.consume(LPAREN)
	var args []*Argument
	for p.tok != RPAREN {
		arg := &Argument{Value: p.parseExpr()}
		if p.tok == ELLIPSIS {
			p.nextToken()
			arg.Spread = true
		}
		args = append(args, arg)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	rparen := p.consume(RPAREN)
	return &CallExpr{Fn: fn, Lparen: lparen, Args: args, Rparen: rparen}
}

// parseIndexSuffix parses X[i] or X[lo..hi] (both bounds optional).
func (p *parser) parseIndexSuffix(x Expr) Expr {
	lbrack := p.consume(LBRACK)

	var lo Expr
	if p.tok != DOTDOT {
		lo = p.parseExpr()
	}
	if p.tok == DOTDOT {
		p.nextToken()
		var hi Expr
		if p.tok != RBRACK {
			hi = p.parseExpr()
		}
		rbrack := p.consume(RBRACK)
		return &SliceExpr{X: x, Lbrack: lbrack, Lo: lo, Hi: hi, Rbrack: rbrack}
	}
	rbrack := p.consume(RBRACK)
	return &IndexExpr{X: x, Lbrack: lbrack, Y: lo, Rbrack: rbrack}
}

func (p *parser) parsePrimaryExpr() Expr {
	switch p.tok {
	case IDENT:
		return p.parseQualifiedIdent()

	case INT, STRING, RUNE, TRUE, FALSE, NULL:
		return p.parseLiteral()

	case LPAREN:
		p.nextToken()
		x := p.parseExpr()
		p.consume(RPAREN)
		return x

	case LBRACE:
		return p.parseListExpr()

	case LBRACK:
		return p.parseArrayLit()

	case STRUCT:
		return p.parseStructLit()

	case IF:
		return p.parseIfExpr()

	case FOR:
		return p.parseForExpr()

	case SWITCH:
		return p.parseSwitchExpr()

	case RETURN:
		ret := p.nextToken()
		var result Expr
		if !p.atExprEnd() {
			result = p.parseExpr()
		}
		return &ReturnExpr{Return: ret, Result: result}

	case BREAK, CONTINUE:
		tok := p.tok
		pos := p.nextToken()
		var label string
		if p.tok == COLON {
			p.nextToken()
			if p.tok != IDENT {
				p.in.errorf(p.tokval.pos, "got %s, want label", p.tok)
			}
			label = p.tokval.raw
			p.nextToken()
		}
		return &BranchExpr{TokenPos: pos, Token: tok, Label: label}

	case DEFER:
		pos := p.nextToken()
		x := p.parseExpr()
		return &DeferExpr{Defer: pos, X: x}

	case ASSERT:
		pos := p.nextToken()
		p.consume(LPAREN)
		cond := p.parseExpr()
		var msg Expr
		if p.tok == COMMA {
			p.nextToken()
			msg = p.parseExpr()
		}
		rparen := p.consume(RPAREN)
		return &AssertExpr{Keyword: pos, Cond: cond, Msg: msg, Rparen: rparen}

	case ABORT:
		pos := p.nextToken()
		p.consume(LPAREN)
		var msg Expr
		if p.tok != RPAREN {
			msg = p.parseExpr()
		}
		rparen := p.consume(RPAREN)
		return &AssertExpr{Keyword: pos, Msg: msg, Rparen: rparen}

	case LEN:
		pos := p.nextToken()
		p.consume(LPAREN)
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &MeasureExpr{Keyword: pos, Op: Len, X: x, Rparen: rparen}

	case SIZE:
		pos := p.nextToken()
		p.consume(LPAREN)
		typ := p.parseTypeExpr()
		rparen := p.consume(RPAREN)
		return &MeasureExpr{Keyword: pos, Op: Size, Type: typ, Rparen: rparen}

	case OFFSET:
		pos := p.nextToken()
		p.consume(LPAREN)
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &MeasureExpr{Keyword: pos, Op: Offset, X: x, Rparen: rparen}
	}
	p.in.errorf(p.tokval.pos, "got %s, want expression", p.tok)
	panic("unreachable")
}

// atExprEnd reports whether the current token cannot begin an
// expression operand, for the benefit of bare "return".
func (p *parser) atExprEnd() bool {
	switch p.tok {
	case SEMI, RPAREN, RBRACE, RBRACK, COMMA, EOF, ELSE:
		return true
	}
	return false
}

func (p *parser) parseLiteral() Expr {
	lit := &Literal{
		Token:    p.tok,
		TokenPos: p.tokval.pos,
		Raw:      p.tokval.raw,
	}
	switch p.tok {
	case INT:
		lit.Suffix = p.tokval.suffix
		switch lit.Suffix {
		case "u", "u8", "u16", "u32", "u64", "z":
			lit.Value = p.tokval.uint
		default:
			lit.Value = p.tokval.int
		}
	case STRING:
		lit.Value = p.tokval.string
	case RUNE:
		lit.Value = []rune(p.tokval.string)[0]
	case TRUE:
		lit.Raw = "true"
		lit.Value = true
	case FALSE:
		lit.Raw = "false"
		lit.Value = false
	case NULL:
		lit.Raw = "null"
	}
	p.nextToken()
	return lit
}

func (p *parser) parseListExpr() Expr {
	lbrace := p.consume(LBRACE)
	var exprs []Expr
	for p.tok != RBRACE {
		exprs = append(exprs, p.parseExpr())
		p.consume(SEMI)
	}
	rbrace := p.consume(RBRACE)
	if len(exprs) == 0 {
		p.in.errorf(lbrace, "empty expression list")
	}
	return &ListExpr{Lbrace: lbrace, Exprs: exprs, Rbrace: rbrace}
}

func (p *parser) parseArrayLit() Expr {
	lbrack := p.consume(LBRACK)
	var elems []Expr
	expand := false
	for p.tok != RBRACK {
		elems = append(elems, p.parseExpr())
		if p.tok == ELLIPSIS {
			p.nextToken()
			expand = true
			break
		}
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	rbrack := p.consume(RBRACK)
	return &ArrayLit{Lbrack: lbrack, Elems: elems, Expand: expand, Rbrack: rbrack}
}

func (p *parser) parseStructLit() Expr {
	structPos := p.consume(STRUCT)
	p.consume(LBRACE)
	var fields []*FieldInit
	for p.tok != RBRACE {
		if p.tok != IDENT {
			p.in.errorf(p.tokval.pos, "got %s, want field name", p.tok)
		}
		f := &FieldInit{NamePos: p.tokval.pos, Name: p.tokval.raw}
		p.nextToken()
		p.consume(COLON)
		f.Type = p.parseTypeExpr()
		p.consume(EQ)
		f.Init = p.parseExpr()
		fields = append(fields, f)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	rbrace := p.consume(RBRACE)
	return &StructLit{StructPos: structPos, Fields: fields, Rbrace: rbrace}
}

func (p *parser) parseIfExpr() Expr {
	ifPos := p.consume(IF)
	p.consume(LPAREN)
	cond := p.parseExpr()
	p.consume(RPAREN)
	truePart := p.parseExpr()
	var falsePart Expr
	if p.tok == ELSE {
		p.nextToken()
		falsePart = p.parseExpr()
	}
	return &IfExpr{If: ifPos, Cond: cond, True: truePart, False: falsePart}
}

// parseForExpr parses a loop:
//
//	for :label (bindings; cond; afterthought) body
//
// The bindings and afterthought are optional, as is the label.
func (p *parser) parseForExpr() Expr {
	forPos := p.consume(FOR)
	var label string
	var labelPos Position
	if p.tok == COLON {
		p.nextToken()
		if p.tok != IDENT {
			p.in.errorf(p.tokval.pos, "got %s, want label", p.tok)
		}
		label = p.tokval.raw
		labelPos = p.tokval.pos
		p.nextToken()
	}
	p.consume(LPAREN)

	var bindings *BindingExpr
	switch p.tok {
	case LET, CONST, STATIC:
		bindings = p.parseBindingExpr()
		p.consume(SEMI)
	}
	cond := p.parseExpr()
	var afterthought Expr
	if p.tok == SEMI {
		p.nextToken()
		afterthought = p.parseExpr()
	}
	p.consume(RPAREN)
	body := p.parseExpr()
	return &ForExpr{
		For:          forPos,
		Label:        label,
		LabelPos:     labelPos,
		Bindings:     bindings,
		Cond:         cond,
		Afterthought: afterthought,
		Body:         body,
	}
}

func (p *parser) parseSwitchExpr() Expr {
	switchPos := p.consume(SWITCH)
	p.consume(LPAREN)
	value := p.parseExpr()
	p.consume(RPAREN)
	p.consume(LBRACE)
	var cases []*Case
	for p.tok != RBRACE {
		casePos := p.consume(CASE)
		c := &Case{CasePos: casePos}
		for p.tok != CASEARROW {
			c.Options = append(c.Options, p.parseExpr())
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		p.consume(CASEARROW)
		c.Body = p.parseExpr()
		p.consume(SEMI)
		cases = append(cases, c)
	}
	rbrace := p.consume(RBRACE)
	if len(cases) == 0 {
		p.in.errorf(switchPos, "switch expression has no cases")
	}
	return &SwitchExpr{Switch: switchPos, Value: value, Cases: cases, Rbrace: rbrace}
}

// parseTypeExpr parses a type expression.
func (p *parser) parseTypeExpr() TypeExpr {
	switch p.tok {
	case CONST:
		pos := p.nextToken()
		t := p.parseTypeExpr()
		return &ConstType{ConstPos: pos, T: t}

	case NULLABLE:
		pos := p.nextToken()
		p.consume(STAR)
		referent := p.parseTypeExpr()
		return &PointerType{StartPos: pos, Nullable: true, Referent: referent}

	case STAR:
		pos := p.nextToken()
		referent := p.parseTypeExpr()
		return &PointerType{StartPos: pos, Referent: referent}

	case LBRACK:
		lbrack := p.nextToken()
		switch p.tok {
		case RBRACK: // []T
			p.nextToken()
			return &SliceType{Lbrack: lbrack, Elem: p.parseTypeExpr()}
		case STAR: // [*]T
			p.nextToken()
			p.consume(RBRACK)
			return &ArrayType{Lbrack: lbrack, Elem: p.parseTypeExpr()}
		default: // [N]T
			n := p.parseExpr()
			p.consume(RBRACK)
			return &ArrayType{Lbrack: lbrack, Len: n, Elem: p.parseTypeExpr()}
		}

	case STRUCT, UNION:
		union := p.tok == UNION
		keyword := p.nextToken()
		p.consume(LBRACE)
		var fields []*Field
		for p.tok != RBRACE {
			if p.tok != IDENT {
				p.in.errorf(p.tokval.pos, "got %s, want field name", p.tok)
			}
			f := &Field{NamePos: p.tokval.pos, Name: p.tokval.raw}
			p.nextToken()
			p.consume(COLON)
			f.Type = p.parseTypeExpr()
			fields = append(fields, f)
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		rbrace := p.consume(RBRACE)
		return &StructType{Keyword: keyword, Union: union, Fields: fields, Rbrace: rbrace}

	case ENUM:
		keyword := p.nextToken()
		var storage *Ident
		if p.tok == IDENT {
			storage = &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
			p.nextToken()
		}
		p.consume(LBRACE)
		var values []*EnumValue
		for p.tok != RBRACE {
			if p.tok != IDENT {
				p.in.errorf(p.tokval.pos, "got %s, want enumerator name", p.tok)
			}
			v := &EnumValue{NamePos: p.tokval.pos, Name: p.tokval.raw}
			p.nextToken()
			if p.tok == EQ {
				p.nextToken()
				v.Value = p.parseExpr()
			}
			values = append(values, v)
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		rbrace := p.consume(RBRACE)
		return &EnumType{Keyword: keyword, Storage: storage, Values: values, Rbrace: rbrace}

	case FN:
		fnPos := p.nextToken()
		params, variadism := p.parseParams()
		result := p.parseTypeExpr()
		return &FuncType{Fn: fnPos, Params: params, Variadism: variadism, Result: result}

	case LPAREN:
		lparen := p.nextToken()
		members := []TypeExpr{p.parseTypeExpr()}
		for p.tok == PIPE {
			p.nextToken()
			members = append(members, p.parseTypeExpr())
		}
		rparen := p.consume(RPAREN)
		if len(members) == 1 {
			return members[0]
		}
		return &TaggedUnionType{Lparen: lparen, Members: members, Rparen: rparen}

	case IDENT:
		return &NamedType{Name: p.parseQualifiedIdent()}
	}
	p.in.errorf(p.tokval.pos, "got %s, want type", p.tok)
	panic("unreachable")
}
