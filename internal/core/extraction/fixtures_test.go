package extraction

const invoiceText = `PREFEITURA MUNICIPAL DE CURITIBA
NOTA FISCAL DE SERVIÇOS ELETRÔNICA - NFS-e
Número da NFS-e: 2024123
Data e Hora de Emissão: 15/03/2024 10:22:31
Competência: 03/2024
Código de Verificação: AB12-CD34
PRESTADOR DE SERVIÇOS
Razão Social: ACME CONSULTORIA LTDA
CNPJ: 12.345.678/0001-90
Inscrição Municipal: 1234567
Endereço: RUA DAS FLORES, 100
Município: CURITIBA - PR
E-mail: Contato@Acme.com.br
TOMADOR DE SERVIÇOS
Razão Social: UNIMED REGIONAL
CNPJ: 98.765.432/0001-10
Município: LONDRINA - PR
DISCRIMINAÇÃO DOS SERVIÇOS
Consultoria em gestão tributária
Código do Serviço: 17.01
Valor dos Serviços: R$ 10.000,00
Deduções: 0,00
Desconto Incondicionado: 0,00
IR: 150,00
INSS: 0,00
CSLL: 100,00
PIS: 65,00
COFINS: 300,00
Valor do ISS: 0,00
Alíquota ISS: 5,00%
Valor Líquido: R$ 9.385,00`

const secondInvoiceText = `NOTA FISCAL DE SERVIÇOS ELETRÔNICA
Número da NFS-e: 2024124
PRESTADOR DE SERVIÇOS
Razão Social: ACME CONSULTORIA LTDA
CNPJ: 12.345.678/0001-90
TOMADOR DE SERVIÇOS
Razão Social: COOPERATIVA DE SAUDE
CPF/CNPJ: 11.222.333/0001-44
DISCRIMINAÇÃO DOS SERVIÇOS
Esta nota substitui a NOTA FISCAL DE SERVIÇOS ELETRÔNICA 2023999
Valor dos Serviços: 2.000,00
Deduções: 0,00
IR: 30,00
CSLL: 20,00
PIS: 13,00
COFINS: 60,00
Valor do ISS: 0,00
Valor Líquido: 1.877,00`

const statementText = `COMPROVANTE DE RENDIMENTOS PAGOS E DE IMPOSTO SOBRE A RENDA RETIDO NA FONTE
Fonte Pagadora
Nome Completo: ACME LTDA - 12
CNPJ: 12.345.678/0001-90
Pessoa Física Beneficiária dos Rendimentos
Nome Completo: JOAO DA SILVA - 12345
CPF: 123.456.789-00
1. Total dos rendimentos (inclusive férias) 10.000,00
2. Contribuição previdenciária oficial 1.100,00
5. Imposto sobre a renda retido na fonte 500,00
1. Décimo terceiro salário 1.000,00
2. Imposto sobre a renda retido na fonte sobre 13º salário 50,00
3. Participação nos lucros ou resultados (PLR) 2.000,00
4. Imposto sobre a renda retido na fonte sobre PLR 300,00
Titular: JOAO DA SILVA 2.400,00
Dependente: MARIA DA SILVA 1.200,00

Nome Completo: - 67890
MARIA SOUZA
1. Total dos rendimentos (inclusive férias) 5.000,00

Nome Completo: TEMPLATE - 99999
1. Total dos rendimentos (inclusive férias)`
