// Package less compiles LESS stylesheets to CSS.
//
// The package implements the commonly used part of the LESS language:
// variables, nesting with parent references, mixins (plain, parametric,
// guarded and namespaced), arithmetic on numbers and colours, the usual
// colour and maths functions, media query bubbling and file imports.
//
// # Quick Start
//
//	css, err := less.Compile(src, less.Options{
//	    Filename: "main.less",
//	    Paths:    []string{"/srv/styles"},
//	})
//	if err != nil {
//	    var lerr *less.Error
//	    if errors.As(err, &lerr) {
//	        log.Printf("%s line %d", lerr.Filename, lerr.Line)
//	    }
//	}
//
// # Imports
//
// "@import" statements naming a .less file (or a path without extension)
// are inlined. The path is looked up next to the importing file first and
// then in each directory of [Options.Paths]. Each file is imported once unless
// the (multiple) option is given. Imports of .css files, url() imports and
// imports with a media query are emitted as plain CSS at the top of the output.
//
// # Mixin Guards
//
// Guards may call default(), which is true only for a definition that would
// not otherwise run: a mixin guarded with "when (default())" is used when no
// other definition matches the call. Mixin calls may nest up to 10000 levels
// deep, enough for guarded loops.
//
// # Division
//
// Division is only performed inside parentheses, so shorthand values such as
// "font: 12px/1.5 serif" pass through untouched while "(@a / 2)" is computed.
// Maths inside calc() is never evaluated; only variables are substituted.
//
// # Errors
//
// Every failure is returned as an [*Error] carrying the file name, line and
// column. The Kind field groups failures the way lessc does (ParseError,
// NameError, ArgumentError, FileError, OperationError). Use errors.Is with the
// sentinel errors in this package to test for a category.
//
// # Unsupported Features
//
// :extend, detached rulesets, maps, plugins, inline JavaScript and variable
// variables (@@name) are not implemented. Stylesheets using :extend,
// detached rulesets or @@name fail with [ErrUnsupported] instead of producing
// wrong CSS. The legacy filter alpha(opacity=N) is passed through verbatim.
package less
