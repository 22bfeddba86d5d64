/* Package main: EightBall

EightBall is a small line-numbered imperative language meant for the kind of
8-bit home computer that only has a few kilobytes of RAM to spare: a
statement interpreter you can type straight into, and a companion one-pass
compiler that turns the same program into bytecode for a separate, smaller
machine to run later.

There is no distinction between "editing" and "running" — the program store
is just the ordered list of lines you have typed (or loaded from a file),
addressable line by line with the `:`-prefixed editor commands, and RUN
walks it top to bottom through the same statement dispatcher an immediate
(un-numbered) line goes through. COMP walks it once more, emitting bytecode
to a file instead of executing anything, for a target that has no interactive
environment of its own to speak of.

Array storage is carved out of a fixed-size arena set up front. Two more
arenas (a program arena and an optional mirror of it) are created at their
configured sizes, but nothing is stored in them: the source lines and the
subroutine table are ordinary Go slices and maps. The code buffer exists
only for the duration of a single COMP.

*/
package main
