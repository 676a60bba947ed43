package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/rules/internal/rulestest"
)

const views = `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <data>
        <record id="view_partner_form" model="ir.ui.view">
            <field name="name">res.partner.form</field>
            <field name="model">res.partner</field>
            <field name="name">duplicated name</field>
            <field name="arch" type="xml">
                <form>
                    <field name="name"/>
                    <field name="name"/>
                </form>
            </field>
        </record>
        <record id="sale_ext.view_partner_form" model="ir.ui.view">
            <field name="inherit_id" ref="base.view_partner_form"/>
            <field name="arch" type="xml">
                <field name="email" position="replace"/>
                <xpath expr="//field[@name='phone']" position="replace">
                    <field name="mobile"/>
                </xpath>
                <field name="vat" position="after"/>
            </field>
        </record>
        <record id="view_partner_tree" model="ir.ui.view">
            <field name="priority">110</field>
            <field name="arch" type="xml">
                <field name="email" position="replace"/>
            </field>
        </record>
        <menuitem id="menu_root" name="Root"/>
        <template id="menu_root"/>
    </data>
</odoo>
`

func TestDuplicateRecordID(t *testing.T) {
	got := rulestest.Run(t, DuplicateRecordID, lint.FormatMarkup, "views/partner.xml", views, nil)
	require.Len(t, got, 2)
	assert.Equal(t, []int{15, 32}, rulestest.Lines(got))
	assert.Equal(t, []string{"view_partner_form", "menu_root"}, rulestest.Objects(got))
	assert.Equal(t, "4", got[0].Detail)
}

func TestDuplicateFields(t *testing.T) {
	got := rulestest.Run(t, DuplicateFields, lint.FormatMarkup, "views/partner.xml", views, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Line)
	assert.Equal(t, "name", got[0].Object)
	assert.Equal(t, "5, 7", got[0].Detail)
}

func TestRedundantModuleName(t *testing.T) {
	got := rulestest.Run(t, RedundantModuleName, lint.FormatMarkup, "views/partner.xml", views, nil)
	assert.Equal(t, []int{15}, rulestest.Lines(got))
	assert.Equal(t, []string{"sale_ext.view_partner_form"}, rulestest.Objects(got))
}

func TestDeprecatedOpenerpNode(t *testing.T) {
	legacy := "<?xml version=\"1.0\"?>\n<openerp>\n  <data/>\n</openerp>\n"
	got := rulestest.Run(t, DeprecatedOpenerpNode, lint.FormatMarkup, "views/a.xml", legacy, nil)
	assert.Equal(t, []int{2}, rulestest.Lines(got))

	assert.Empty(t, rulestest.Run(t, DeprecatedOpenerpNode, lint.FormatMarkup, "views/b.xml", views, nil))
}

func TestDangerousViewReplace(t *testing.T) {
	got := rulestest.Run(t, DangerousViewReplace, lint.FormatMarkup, "views/partner.xml", views, nil)
	assert.Equal(t, []int{18, 19}, rulestest.Lines(got))
	assert.Equal(t, "16", got[0].Detail)
	assert.Equal(t, "99", got[0].Object)

	strict := rulestest.Run(t, DangerousViewReplace, lint.FormatMarkup, "views/partner.xml", views, lint.Options{"min_priority": "200"})
	assert.Equal(t, []int{18, 19, 28}, rulestest.Lines(strict))
}

func TestDangerousViewReplace_InvalidOptions(t *testing.T) {
	err := DangerousViewReplace.ValidateOptions(lint.Options{"min_priority": "high"})
	require.ErrorIs(t, err, lint.ErrInvalidOptions)
	assert.Contains(t, err.Error(), "min_priority")
}
