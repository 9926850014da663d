package java_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/java"
)

const invoiceService = `package com.acme.billing;

import java.math.BigDecimal;

public class InvoiceService {
    // not part of the tree
    private static final int LIMIT = 10;

    @Transactional
    public BigDecimal total(int lines, BigDecimal price) {
        if (lines > LIMIT) {
            throw new IllegalArgumentException("too many lines");
        }
        return price.multiply(BigDecimal.valueOf(lines));
    }
}
`

func TestParse_MapsKindsAndRoles(t *testing.T) {
	tree, err := java.NewParser(nil).Parse(context.Background(), "InvoiceService.java", []byte(invoiceService))
	require.NoError(t, err)
	require.Equal(t, sourcetree.KindFile, tree.Kind(tree.Root()))

	classes := tree.Find(tree.Root(), sourcetree.KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, "InvoiceService", tree.Text(tree.ChildByRole(classes[0], sourcetree.RoleName)))

	methods := tree.Find(tree.Root(), sourcetree.KindMethod)
	require.Len(t, methods, 1)
	method := methods[0]
	assert.Equal(t, "total", tree.Text(tree.ChildByRole(method, sourcetree.RoleName)))
	assert.Equal(t, 9, tree.Node(method).Line)
	assert.True(t, tree.Annotations(method).Has("Transactional"))

	ifs := tree.Find(method, sourcetree.KindIf)
	require.Len(t, ifs, 1)
	cond := tree.ChildByRole(ifs[0], sourcetree.RoleCondition)
	assert.Equal(t, "(lines > LIMIT)", tree.Text(cond))
	binary := tree.Find(cond, sourcetree.KindBinary)
	require.Len(t, binary, 1)
	assert.Equal(t, ">", tree.Node(binary[0]).Operator)

	throws := tree.Find(ifs[0], sourcetree.KindThrow)
	require.Len(t, throws, 1)
	assert.NotEqual(t, sourcetree.NoNode, tree.ChildByKind(throws[0], sourcetree.KindNew))

	var members []sourcetree.Kind
	for _, id := range tree.Children(tree.ChildByRole(classes[0], sourcetree.RoleBody)) {
		members = append(members, tree.Kind(id))
	}
	assert.Equal(t, []sourcetree.Kind{sourcetree.KindField, sourcetree.KindMethod}, members)
	assert.Len(t, tree.Find(tree.Root(), sourcetree.KindImport), 1)
}

func TestParse_UnparsableContent(t *testing.T) {
	_, err := java.NewParser(nil).Parse(context.Background(), "Broken.java", []byte("%%% this is ((( not java"))
	require.Error(t, err)
	assert.ErrorIs(t, err, java.ErrUnparsable)
}
