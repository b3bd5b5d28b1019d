package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outline(t *testing.T, name, src string) *Outline {
	t.Helper()
	o, err := NewParser().Outline(context.Background(), name, []byte(src))
	require.NoError(t, err)
	return o
}

func symbolNames(o *Outline) []string {
	out := make([]string, 0, len(o.Symbols))
	for _, s := range o.Symbols {
		out = append(out, s.Name)
	}
	return out
}

func TestOutlineCommonJS(t *testing.T) {
	src := `const express = require('express')
const path = require("path")

function start(port) {
  return app.listen(port)
}

const health = (req, res) => res.send('ok')
`
	o := outline(t, "index.js", src)
	assert.Equal(t, "javascript", o.Grammar)
	assert.Equal(t, []string{"express", "path"}, o.Imports)
	assert.Equal(t, []Symbol{
		{Name: "start", Kind: KindFunction, Line: 4},
		{Name: "health", Kind: KindFunction, Line: 8},
	}, o.Symbols)
}

func TestOutlineESModulesAndClasses(t *testing.T) {
	src := `import React from 'react'
import { render } from 'react-dom'
import React2 from 'react'

export class Widget {
  draw() {}
}
`
	o := outline(t, "widget.jsx", src)
	assert.Equal(t, []string{"react", "react-dom"}, o.Imports)
	assert.Equal(t, []string{"Widget", "draw"}, symbolNames(o))
	assert.Equal(t, KindClass, o.Symbols[0].Kind)
	assert.Equal(t, KindMethod, o.Symbols[1].Kind)
}

func TestOutlineTypeScript(t *testing.T) {
	src := `import { Injectable } from "@nestjs/common";

export function add(a: number, b: number): number {
  return a + b;
}
`
	o := outline(t, "math.ts", src)
	assert.Equal(t, "typescript", o.Grammar)
	assert.Equal(t, []string{"@nestjs/common"}, o.Imports)
	assert.Equal(t, []string{"add"}, symbolNames(o))
}

func TestOutlineTSX(t *testing.T) {
	src := `import { useState } from "react";

export function Counter() {
  const [n, setN] = useState(0);
  return <button onClick={() => setN(n + 1)}>{n}</button>;
}
`
	o := outline(t, "Counter.tsx", src)
	assert.Equal(t, "tsx", o.Grammar)
	assert.Equal(t, []string{"react"}, o.Imports)
	assert.Contains(t, symbolNames(o), "Counter")
}

func TestOutlinePython(t *testing.T) {
	src := `import os, sys as system
from pathlib import Path

class App:
    def run(self):
        pass

def main():
    pass
`
	o := outline(t, "app.py", src)
	assert.Equal(t, []string{"os", "sys", "pathlib"}, o.Imports)
	assert.Equal(t, []string{"App", "run", "main"}, symbolNames(o))
}

func TestOutlineGo(t *testing.T) {
	src := `package main

import (
	"fmt"
	"os"
)

type server struct{}

func (s *server) Start() {}

func main() {
	fmt.Println(os.Args)
}
`
	o := outline(t, "main.go", src)
	assert.Equal(t, []string{"fmt", "os"}, o.Imports)
	assert.Equal(t, []Symbol{
		{Name: "Start", Kind: KindMethod, Line: 10},
		{Name: "main", Kind: KindFunction, Line: 12},
	}, o.Symbols)
}

func TestOutlineJava(t *testing.T) {
	src := `import java.util.List;

public class Main {
    public static void main(String[] args) {}
}
`
	o := outline(t, "Main.java", src)
	assert.Equal(t, []string{"java.util.List"}, o.Imports)
	assert.Equal(t, []string{"Main", "main"}, symbolNames(o))
}

func TestOutlineUnsupportedExtension(t *testing.T) {
	_, err := NewParser().Outline(context.Background(), "notes.txt", []byte("hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("src/App.TSX"))
	assert.True(t, Supported("server.cjs"))
	assert.False(t, Supported("README.md"))
	assert.False(t, Supported("Makefile"))
}

func TestOutlineEmptySource(t *testing.T) {
	o := outline(t, "empty.js", "")
	assert.Empty(t, o.Symbols)
	assert.Empty(t, o.Imports)
	assert.NotNil(t, o.Imports)
}
