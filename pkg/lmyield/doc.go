// Package lmyield runs block-structured prompt templates against a streaming
// language model and decodes the stream into named values.
//
// A template is a sequence of blocks:
//
//	{{#context~}}
//	You are {{personality}}.
//	{{~/context}}
//
//	{{#human~ name='alice'}}
//	Hi!
//	{{~/human}}
//
//	{{#instructions~}}
//	Answer with the following <REPLY />
//	{{~/instructions}}
//
//	{{#yield~}}
//	<REPLY>
//	  <FELT>I felt {{gen 'feeling' until '</FELT>'}}
//	  <SAID>"{{gen 'saying' until '"</SAID>'}}
//	</REPLY>
//	{{~/yield}}
//
// The non-yield blocks compile to a [Program] of role-tagged messages. The
// yield block compiles to an ordered list of [Instruction]s. A [Session]
// streams the program through a [genx.Generator] and feeds the text into a
// [Decoder], which confirms each literal, captures each value up to its
// closing delimiter and reports a deviation as soon as the stream stops
// matching. On deviation the session restarts generation from a checkpoint
// built out of the values already confirmed.
//
// Comments are written {{! ... }} and are removed before block scanning.
// Placeholders {{name}} are replaced from the variables passed to [Compile];
// unknown placeholders are left as they are.
package lmyield
